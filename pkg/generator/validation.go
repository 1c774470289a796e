package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aryann/difflib"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// boilerplateHeaders は校閲の応答に付くことがある見出しです。
var boilerplateHeaders = []string{
	"**Review for Cultural Sensitivity and Age Appropriateness**",
	"**Cultural Sensitivity:**",
	"**Age Appropriateness:**",
	"**Suggestions and Edits:**",
}

// ValidateStory は文化面と年齢面で必要な箇所だけを直す校閲を行います。
// エラーを返した場合、呼び出し側は校閲前の本文をそのまま使います。
func (sc *StoryComposer) ValidateStory(ctx context.Context, story string, profile domain.CulturalProfile) (string, error) {
	profileJSON, err := jsonString(profile)
	if err != nil {
		return "", err
	}

	prompt, err := sc.Prompts.Build(prompts.ModeValidation, prompts.ValidationData{
		Profile:   profileJSON,
		StoryText: story,
	})
	if err != nil {
		return "", err
	}

	raw, err := sc.Text.GenerateText(ctx, prompt, textOptions(sc.Config.Stages.Validation))
	if err != nil {
		return "", fmt.Errorf("校閲の生成に失敗しました: %w", err)
	}

	reviewed := CleanStory(raw)
	if reviewed == "" {
		return "", fmt.Errorf("%w: review returned no story text", parser.ErrMalformedResponse)
	}

	added, removed := EditStats(story, reviewed)
	slog.InfoContext(ctx, "Story reviewed", "words_added", added, "words_removed", removed)
	return reviewed, nil
}

// CleanStory は既知の見出しを取り除き、前後の空白を削ります。
func CleanStory(text string) string {
	for _, header := range boilerplateHeaders {
		text = strings.ReplaceAll(text, header, "")
	}
	return strings.TrimSpace(text)
}

// EditStats は単語単位の差分から追加語数と削除語数を数えます。
func EditStats(before, after string) (added, removed int) {
	for _, d := range difflib.Diff(strings.Fields(before), strings.Fields(after)) {
		switch d.Delta {
		case difflib.RightOnly:
			added++
		case difflib.LeftOnly:
			removed++
		}
	}
	return added, removed
}
