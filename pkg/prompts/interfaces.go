package prompts

import "github.com/shouni/go-picturebook-kit/pkg/domain"

// TextPrompt はテキスト生成用のプロンプトを構築する契約です。
type TextPrompt interface {
	// Build は、指定されたモード（例: "story_plan"）とデータに基づいてプロンプト文字列を生成します。
	Build(mode string, data any) (string, error)
}

// ImagePrompt は挿絵用のプロンプトを構築する契約です。
type ImagePrompt interface {
	// BuildScene は、正準記述と視覚的な要約から1場面分の画像プロンプトを生成します。
	BuildScene(scene domain.Scene, characterDescription, visualBrief string) string
}
