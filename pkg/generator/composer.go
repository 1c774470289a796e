package generator

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/ai"
	"github.com/shouni/go-picturebook-kit/pkg/config"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"

	"golang.org/x/time/rate"
)

// StoryComposer は各ステージが共有する生成器・プロンプト・設定を保持します。
// リクエスト間で状態を持たないため、複数のリクエストから同時に使えます。
type StoryComposer struct {
	Text         ai.TextGenerator
	Image        ai.ImageGenerator
	Prompts      prompts.TextPrompt
	ImagePrompts prompts.ImagePrompt
	RateLimiter  *rate.Limiter
	Config       config.Config
}

// NewStoryComposer は StoryComposer の新しいインスタンスを初期化済みの状態で生成します。
func NewStoryComposer(
	text ai.TextGenerator,
	image ai.ImageGenerator,
	tp prompts.TextPrompt,
	ip prompts.ImagePrompt,
	cfg config.Config,
) *StoryComposer {
	cfg = cfg.Normalize()
	return &StoryComposer{
		Text:         text,
		Image:        image,
		Prompts:      tp,
		ImagePrompts: ip,
		RateLimiter:  NewRateLimiter(cfg),
		Config:       cfg,
	}
}

// NewRateLimiter は画像生成の呼び出し間隔を制御するリミッターを生成します。
// 間隔が 0 なら制限しません。
func NewRateLimiter(cfg config.Config) *rate.Limiter {
	if cfg.RateInterval <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(cfg.RateInterval), cfg.RateBurst)
}

// textOptions はステージのパラメータから自由記述用の生成オプションを作ります。
func textOptions(p config.StageParams) ai.TextOptions {
	return ai.TextOptions{
		Temperature: p.Temperature,
		MaxTokens:   p.MaxTokens,
	}
}

// jsonOptions は JSON 応答を要求する生成オプションを作ります。schema が nil なら構造化出力は使いません。
func jsonOptions(p config.StageParams, schema any, schemaName string) ai.TextOptions {
	opts := textOptions(p)
	opts.JSON = true
	opts.Schema = schema
	opts.SchemaName = schemaName
	return opts
}

// logFallback は代替値に切り替えたことを記録します。
func logFallback(ctx context.Context, stage string, err error) {
	slog.Log(ctx, fallbackLevel(err), "Stage fell back to deterministic value", "stage", stage, "error", err)
}

// fallbackLevel は生成や応答解析の失敗なら Warn、それ以外の想定外のエラーなら Error を返します。
func fallbackLevel(err error) slog.Level {
	switch {
	case ai.IsFallbackWorthy(err),
		errors.Is(err, parser.ErrMalformedResponse),
		errors.Is(err, domain.ErrInvalidPlan),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
