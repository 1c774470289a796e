package pipeline

import (
	"context"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/generator"
)

// Composer はオーケストレーターが順に呼び出すステージ群です。
// generator.StoryComposer がこれを満たします。
type Composer interface {
	AnalyzeCulture(ctx context.Context, in domain.UserInput, meta domain.UserMetadata) (domain.CulturalAnalysis, bool)
	PlanStory(ctx context.Context, in domain.UserInput, profile domain.CulturalProfile) (domain.StoryPlan, bool)
	DesignCharacter(ctx context.Context, in domain.UserInput, profile domain.CulturalProfile) (domain.CharacterProfile, bool)
	WriteStory(ctx context.Context, in domain.UserInput, plan domain.StoryPlan, profile domain.CulturalProfile) (string, bool)
	ValidateStory(ctx context.Context, story string, profile domain.CulturalProfile) (string, error)
	generator.ScenePlanner
	generator.SceneIllustrator
}

// Runner は1リクエスト分のパイプラインを実行します。
type Runner interface {
	Run(ctx context.Context, req domain.Request) (*domain.GenerationResult, error)
}
