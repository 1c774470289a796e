package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ステージ名です。ログ・スパン・Metadata.Fallbacks で共通に使います。
const (
	StageCulturalAnalysis = "cultural_analysis"
	StageCulturalProfile  = "cultural_profile"
	StageStoryPlan        = "story_plan"
	StageCharacter        = "character_profile"
	StageStoryText        = "story_text"
	StageValidation       = "validation"
	StageScenePlan        = "scene_plan"
	StageIllustration     = "illustration"
)

// run は1リクエストの実行中だけ生きる状態です。
type run struct {
	p         *Pipeline
	fallbacks []string
}

// stage はステージを1つ実行し、所要時間と代替値の有無をログとスパンに残します。
// 実行前にコンテキストが終わっていれば ErrPipeline を返し、以降のステージは実行しません。
func (r *run) stage(ctx context.Context, name string, fn func(ctx context.Context) bool) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: aborted before %s: %w", ErrPipeline, name, err)
	}

	ctx, span := r.p.tracer.Start(ctx, spanPrefix+name)
	defer span.End()

	startTime := time.Now()
	fellBack := fn(ctx)
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.String("stage", name),
		attribute.Bool("fallback", fellBack),
		attribute.String("model", domain.ModelTag),
	)
	if fellBack {
		span.SetStatus(codes.Error, "fell back to deterministic value")
		r.fallbacks = append(r.fallbacks, name)
	}

	slog.InfoContext(ctx, "Stage completed",
		"stage", name,
		"duration", duration.Round(time.Millisecond),
		"fallback", fellBack,
	)
	return nil
}
