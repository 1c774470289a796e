package generator

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// planGuidance は物語プランのプロンプトに渡す文化的なガイダンスです。
type planGuidance struct {
	CulturalAnalysis domain.CulturalAnalysis `json:"cultural_analysis"`
	Principles       []string                `json:"principles"`
	Region           string                  `json:"region"`
}

// PlanStory は3ビートの物語プランを生成します。
// 解析できない応答やビート数の違いは全て決定的な代替プランに置き換えます。再試行はしません。
func (sc *StoryComposer) PlanStory(ctx context.Context, in domain.UserInput, profile domain.CulturalProfile) (domain.StoryPlan, bool) {
	plan, err := sc.planStory(ctx, in, profile)
	if err != nil {
		logFallback(ctx, "story_plan", err)
		return domain.FallbackStoryPlan(in), true
	}
	return plan, false
}

func (sc *StoryComposer) planStory(ctx context.Context, in domain.UserInput, profile domain.CulturalProfile) (domain.StoryPlan, error) {
	guidance, err := json.MarshalIndent(planGuidance{
		CulturalAnalysis: profile.Analysis,
		Principles:       profile.Principles,
		Region:           profile.UserContext.Region,
	}, "", "  ")
	if err != nil {
		return domain.StoryPlan{}, err
	}

	prompt, err := sc.Prompts.Build(prompts.ModeStoryPlan, prompts.StoryPlanData{
		Input:    in,
		Location: cmp.Or(in.Location, "a familiar place"),
		Guidance: string(guidance),
	})
	if err != nil {
		return domain.StoryPlan{}, err
	}

	raw, err := sc.Text.GenerateText(ctx, prompt, jsonOptions(sc.Config.Stages.StoryPlan, domain.StoryPlan{}, "story_plan"))
	if err != nil {
		return domain.StoryPlan{}, fmt.Errorf("物語プランの生成に失敗しました: %w", err)
	}

	plan, err := parser.Decode[domain.StoryPlan](raw)
	if err != nil {
		return domain.StoryPlan{}, err
	}
	if err := plan.Validate(); err != nil {
		return domain.StoryPlan{}, fmt.Errorf("%w: %w", parser.ErrMalformedResponse, err)
	}

	plan.Title = strings.TrimSpace(plan.Title)
	for i, beat := range plan.PlotBeats {
		plan.PlotBeats[i] = strings.TrimSpace(beat)
	}
	plan.Moral = strings.TrimSpace(plan.Moral)
	return plan, nil
}
