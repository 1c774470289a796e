package prompts

import (
	"fmt"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// ImagePromptBuilder は場面ごとの挿絵プロンプトを組み立てます。
// キャラクターの記述は受け取った文字列をそのまま埋め込みます。
type ImagePromptBuilder struct {
	style string
}

// NewImagePromptBuilder は新しい ImagePromptBuilder を生成します。style が空なら BookStyle を使います。
func NewImagePromptBuilder(style string) *ImagePromptBuilder {
	if strings.TrimSpace(style) == "" {
		style = BookStyle
	}
	return &ImagePromptBuilder{style: style}
}

// BuildScene は役割・キャラクター・場面・感情・画風・規則の各セクションを連結します。
func (pb *ImagePromptBuilder) BuildScene(scene domain.Scene, characterDescription, visualBrief string) string {
	var sb strings.Builder

	sb.WriteString(IllustrationHeader)
	sb.WriteString("\n\nROLE:\n")
	if role := strings.TrimSpace(string(scene.PageRole)); role != "" {
		sb.WriteString(fmt.Sprintf("This illustration shows a key %s moment in the story.", role))
	}

	sb.WriteString("\n\nCHARACTER (must remain visually consistent across all images):\n")
	sb.WriteString(characterDescription)

	sb.WriteString("\n\nSCENE TO ILLUSTRATE:\n")
	sb.WriteString(strings.TrimSpace(visualBrief))

	sb.WriteString("\n\nEMOTION AND STORYTELLING:\n")
	sb.WriteString(EmotionLine(scene.EmotionalTone))

	sb.WriteString("\n\nSTYLE:\n")
	sb.WriteString(pb.style)

	sb.WriteString("\n\nRULES:\n")
	sb.WriteString(IllustrationRules)

	return sb.String()
}

// EmotionLine は感情のトーンから指示文を作ります。
func EmotionLine(tone string) string {
	tone = strings.TrimSpace(tone)
	if tone == "" {
		return GenericEmotionLine
	}
	return fmt.Sprintf("The overall emotional tone is %s, clearly visible in the character's expression and body language.", tone)
}
