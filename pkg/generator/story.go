package generator

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

var beatLabelRegex = regexp.MustCompile(`(?i)^\s*(beginning|middle|end)\s*:\s*`)

// WriteStory はプランとプロファイルから本文を生成します。
// 終端行の保証はここでは行わず、オーケストレーターに任せます。
// 生成に失敗した場合はプランから組み立てた汎用の物語を返します。
func (sc *StoryComposer) WriteStory(ctx context.Context, in domain.UserInput, plan domain.StoryPlan, profile domain.CulturalProfile) (string, bool) {
	text, err := sc.writeStory(ctx, in, plan, profile)
	if err != nil {
		logFallback(ctx, "story_text", err)
		return FallbackStory(plan, in.CharacterName), true
	}
	return text, false
}

func (sc *StoryComposer) writeStory(ctx context.Context, in domain.UserInput, plan domain.StoryPlan, profile domain.CulturalProfile) (string, error) {
	planJSON, err := jsonString(plan)
	if err != nil {
		return "", err
	}
	profileJSON, err := jsonString(profile)
	if err != nil {
		return "", err
	}

	data := prompts.StoryData{
		Plan:          planJSON,
		Profile:       profileJSON,
		AgeDescriptor: in.AgeDescriptor,
	}
	if p, ok := domain.LengthFor(in.StoryLength); ok {
		data.LengthHint = fmt.Sprintf("roughly %d to %d tokens", p.MinTokens, p.MaxTokens)
	}
	if p, ok := domain.ReadingLevelFor(in.ReadingLevel); ok {
		data.ReadingHint = fmt.Sprintf("%s vocabulary, sentences of at most %d words", p.VocabLevel, p.MaxSentenceLength)
	}

	prompt, err := sc.Prompts.Build(prompts.ModeStory, data)
	if err != nil {
		return "", err
	}

	text, err := sc.Text.GenerateText(ctx, prompt, textOptions(sc.Config.Stages.Story))
	if err != nil {
		return "", fmt.Errorf("本文の生成に失敗しました: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("本文が空でした")
	}
	return strings.TrimSpace(text), nil
}

// FallbackStory はプランのビートを段落にした汎用の物語を返します。
// 各ビートの段落は場面抽出の代替処理で1場面として拾える長さにします。
func FallbackStory(plan domain.StoryPlan, name string) string {
	paragraphs := make([]string, 0, len(plan.PlotBeats)+2)
	for _, beat := range plan.PlotBeats {
		p := strings.TrimSpace(beatLabelRegex.ReplaceAllString(beat, ""))
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) <= minSceneParagraphLength {
			p = fmt.Sprintf("%s This is part of %s's story.", p, name)
		}
		paragraphs = append(paragraphs, p)
	}
	if moral := strings.TrimSpace(plan.Moral); moral != "" {
		paragraphs = append(paragraphs, "The lesson of the day: "+moral)
	}
	paragraphs = append(paragraphs, domain.TerminalMarker)
	return strings.Join(paragraphs, "\n\n")
}
