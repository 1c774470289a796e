package generator

import (
	"testing"

	"github.com/shouni/go-picturebook-kit/pkg/ai"
	"github.com/shouni/go-picturebook-kit/pkg/config"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

const (
	markerAnalysis  = "Analyze this children's story request"
	markerPlan      = "You are creating a story PLAN"
	markerCharacter = "Create a COMPLETE character design"
	markerStory     = "You are a children's story writer."
	markerReview    = "You are a quality reviewer"
	markerScenes    = "You are an experienced children's book illustrator."
	markerSummary   = "You are helping an illustrator"
)

func newTestComposer(t *testing.T, text ai.TextGenerator, image ai.ImageGenerator) *StoryComposer {
	t.Helper()
	tp, err := prompts.NewTextPromptBuilder()
	if err != nil {
		t.Fatalf("NewTextPromptBuilder() error = %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.RateInterval = 0
	return NewStoryComposer(text, image, tp, prompts.NewImagePromptBuilder(""), cfg)
}

func testInput() domain.UserInput {
	return domain.UserInput{
		CharacterName: "Maya",
		AgeDescriptor: "7-9",
		CharacterType: "human",
		Gender:        "female",
		Traits:        []string{"brave", "kind"},
		Location:      "Tokyo",
		Theme:         "adventure",
	}
}

func testProfile() domain.CulturalProfile {
	return domain.BuildCulturalProfile(testInput(), domain.UserMetadata{}, domain.ClusterContext{}, domain.DefaultCulturalAnalysis())
}

const characterJSON = `{
  "name": "Maya",
  "age_description": "a 7-9 year old child",
  "visual_identity": {
    "skin_tone": "light tan skin",
    "hair_description": "black straight hair",
    "hairstyle": "two short pigtails",
    "eye_description": "dark brown almond eyes",
    "facial_features": "round face with rosy cheeks",
    "body_proportions": "small 8 year old build",
    "clothing_description": "yellow raincoat and red boots",
    "clothing_colors": "yellow, red"
  },
  "personality_traits": ["brave", "kind"],
  "art_style": "soft watercolor children's book illustration"
}`
