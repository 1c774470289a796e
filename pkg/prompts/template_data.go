package prompts

import (
	_ "embed"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

const (
	ModeCulturalAnalysis = "cultural_analysis"
	ModeStoryPlan        = "story_plan"
	ModeCharacter        = "character_profile"
	ModeStory            = "story"
	ModeValidation       = "validation"
	ModeScenePlan        = "scene_plan"
	ModeSceneSummary     = "scene_summary"
)

// CulturalAnalysisData は文化分析プロンプトに渡すデータです。
type CulturalAnalysisData struct {
	Input    domain.UserInput
	Metadata domain.UserMetadata
}

// StoryPlanData は物語プランのプロンプトに渡すデータです。
type StoryPlanData struct {
	Input    domain.UserInput
	Location string
	// Guidance は文化分析・原則・地域を整形した JSON です。
	Guidance string
}

// CharacterData はキャラクター設計のプロンプトに渡すデータです。
type CharacterData struct {
	Input       domain.UserInput
	MidpointAge int
	Background  string
	Location    string
	Theme       string
}

// StoryData は本文生成のプロンプトに渡すデータです。
type StoryData struct {
	Plan          string
	Profile       string
	AgeDescriptor string
	LengthHint    string
	ReadingHint   string
}

// ValidationData は校閲プロンプトに渡すデータです。
type ValidationData struct {
	Profile   string
	StoryText string
}

// ScenePlanData は場面抽出プロンプトに渡すデータです。
type ScenePlanData struct {
	MaxScenes int
	StoryText string
}

// SceneSummaryData は場面要約プロンプトに渡すデータです。
type SceneSummaryData struct {
	MaxWords    int
	Description string
}

var (
	//go:embed cultural_analysis.md
	CulturalAnalysisPrompt string
	//go:embed story_plan.md
	StoryPlanPrompt string
	//go:embed character_profile.md
	CharacterPrompt string
	//go:embed story.md
	StoryPrompt string
	//go:embed validation.md
	ValidationPrompt string
	//go:embed scene_plan.md
	ScenePlanPrompt string
	//go:embed scene_summary.md
	SceneSummaryPrompt string
)

// allTemplates はモードとテンプレート文字列を紐づけるマップなのだ。
var allTemplates = map[string]string{
	ModeCulturalAnalysis: CulturalAnalysisPrompt,
	ModeStoryPlan:        StoryPlanPrompt,
	ModeCharacter:        CharacterPrompt,
	ModeStory:            StoryPrompt,
	ModeValidation:       ValidationPrompt,
	ModeScenePlan:        ScenePlanPrompt,
	ModeSceneSummary:     SceneSummaryPrompt,
}
