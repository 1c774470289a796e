package generator

import (
	"context"
	"fmt"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// AnalyzeCulture は文化的な分析を1回の生成で求めます。
// 生成や解析に失敗した場合は固定の分析結果を返し、2番目の戻り値が true になります。
func (sc *StoryComposer) AnalyzeCulture(ctx context.Context, in domain.UserInput, meta domain.UserMetadata) (domain.CulturalAnalysis, bool) {
	analysis, err := sc.analyzeCulture(ctx, in, meta)
	if err != nil {
		logFallback(ctx, "cultural_analysis", err)
		return domain.DefaultCulturalAnalysis(), true
	}
	return analysis, false
}

func (sc *StoryComposer) analyzeCulture(ctx context.Context, in domain.UserInput, meta domain.UserMetadata) (domain.CulturalAnalysis, error) {
	prompt, err := sc.Prompts.Build(prompts.ModeCulturalAnalysis, prompts.CulturalAnalysisData{
		Input:    in,
		Metadata: meta,
	})
	if err != nil {
		return domain.CulturalAnalysis{}, err
	}

	raw, err := sc.Text.GenerateText(ctx, prompt, jsonOptions(sc.Config.Stages.CulturalAnalysis, domain.CulturalAnalysis{}, "cultural_analysis"))
	if err != nil {
		return domain.CulturalAnalysis{}, fmt.Errorf("文化分析の生成に失敗しました: %w", err)
	}

	analysis, err := parser.Decode[domain.CulturalAnalysis](raw)
	if err != nil {
		return domain.CulturalAnalysis{}, err
	}
	if analysis.IsEmpty() {
		return domain.CulturalAnalysis{}, fmt.Errorf("%w: cultural analysis has no entries", parser.ErrMalformedResponse)
	}
	return analysis, nil
}
