package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/domain"

	"github.com/segmentio/ksuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/shouni/go-picturebook-kit/pkg/pipeline"
	spanPrefix = "picturebook."
)

// ErrPipeline はパイプライン全体の失敗を表します。
// 各ステージの生成エラーは内部で代替値に置き換わるため、これが返るのは中断か想定外の障害のときだけです。
var ErrPipeline = errors.New("picturebook pipeline failed")

// Option は Pipeline の設定を変更します。
type Option func(*Pipeline)

// WithTracerProvider はスパンの出力先を差し替えます。
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(p *Pipeline) {
		p.tracer = tp.Tracer(tracerName)
	}
}

// WithClock は結果に記録する時刻の取得元を差し替えます。
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithRunIDGenerator は1回の実行を識別する ID の生成元を差し替えます。
// ID は画像の保存先と Metadata.RunID に使われます。
func WithRunIDGenerator(newID func() string) Option {
	return func(p *Pipeline) {
		p.newRunID = newID
	}
}

// Pipeline は入力の正規化から結果の組み立てまでを直列に実行するオーケストレーターです。
type Pipeline struct {
	composer Composer
	tracer   trace.Tracer
	now      func() time.Time
	newRunID func() string
}

// New は新しい Pipeline を生成します。
func New(composer Composer, opts ...Option) *Pipeline {
	p := &Pipeline{
		composer: composer,
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
		newRunID: func() string { return ksuid.New().String() },
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run はリクエストを1件処理して GenerationResult を返します。
// 生成の失敗は各ステージで吸収されるため、エラーになるのはキャンセルとパニックのときだけです。
func (p *Pipeline) Run(ctx context.Context, req domain.Request) (result *domain.GenerationResult, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.ErrorContext(ctx, "Pipeline panicked", "panic", rec)
			result = nil
			err = fmt.Errorf("%w: unexpected panic: %v", ErrPipeline, rec)
		}
	}()

	ctx, span := p.tracer.Start(ctx, spanPrefix+"run")
	defer span.End()

	in := req.Input.Normalize()
	runID := p.newRunID()
	span.SetAttributes(attribute.String("run_id", runID))
	slog.InfoContext(ctx, "Picturebook pipeline started",
		"run_id", runID,
		"character", in.CharacterName,
		"age", in.AgeDescriptor,
		"traits", in.Traits,
	)
	startTime := time.Now()

	r := &run{p: p}
	c := p.composer

	var (
		analysis  domain.CulturalAnalysis
		profile   domain.CulturalProfile
		plan      domain.StoryPlan
		character domain.CharacterProfile
		story     string
		scenes    []domain.Scene
		images    []string
	)

	steps := []struct {
		name string
		fn   func(ctx context.Context) bool
	}{
		{StageCulturalAnalysis, func(ctx context.Context) bool {
			var fellBack bool
			analysis, fellBack = c.AnalyzeCulture(ctx, in, req.Metadata)
			return fellBack
		}},
		{StageCulturalProfile, func(context.Context) bool {
			profile = domain.BuildCulturalProfile(in, req.Metadata, req.Cluster, analysis)
			return false
		}},
		{StageStoryPlan, func(ctx context.Context) bool {
			var fellBack bool
			plan, fellBack = c.PlanStory(ctx, in, profile)
			return fellBack
		}},
		{StageCharacter, func(ctx context.Context) bool {
			var fellBack bool
			character, fellBack = c.DesignCharacter(ctx, in, profile)
			profile = profile.WithCharacter(character)
			return fellBack
		}},
		{StageStoryText, func(ctx context.Context) bool {
			var fellBack bool
			story, fellBack = c.WriteStory(ctx, in, plan, profile)
			return fellBack
		}},
		{StageValidation, func(ctx context.Context) bool {
			reviewed, err := c.ValidateStory(ctx, story, profile)
			if err != nil {
				slog.WarnContext(ctx, "Validation failed, keeping story unchanged", "error", err)
				story = domain.EnsureTerminalMarker(story)
				return true
			}
			story = domain.EnsureTerminalMarker(reviewed)
			return false
		}},
		{StageScenePlan, func(ctx context.Context) bool {
			var fellBack bool
			scenes, fellBack = c.PlanScenes(ctx, story)
			return fellBack
		}},
		{StageIllustration, func(ctx context.Context) bool {
			var failed int
			images, failed = c.Illustrate(ctx, runID, scenes, character)
			return failed > 0
		}},
	}

	for _, s := range steps {
		if err := r.stage(ctx, s.name, s.fn); err != nil {
			slog.ErrorContext(ctx, "Picturebook pipeline aborted", "stage", s.name, "error", err)
			return nil, err
		}
	}

	result = &domain.GenerationResult{
		StoryText:        story,
		Images:           images,
		Scenes:           scenes,
		CharacterProfile: character,
		CulturalProfile:  profile,
		StoryPlan:        plan,
		Metadata: domain.Metadata{
			RunID:         runID,
			Model:         domain.ModelTag,
			Traits:        in.Traits,
			AgeDescriptor: in.AgeDescriptor,
			Timestamp:     p.now().UTC(),
			Fallbacks:     r.fallbacks,
		},
	}

	slog.InfoContext(ctx, "Picturebook pipeline completed",
		"run_id", runID,
		"title", result.Title(),
		"images", len(images),
		"fallbacks", r.fallbacks,
		"duration", time.Since(startTime).Round(time.Millisecond),
	)
	return result, nil
}
