package builder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/ai"
	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/generator"
	"github.com/shouni/go-picturebook-kit/pkg/pipeline"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
	"github.com/shouni/go-picturebook-kit/pkg/store"
)

// BuildApp は設定から生成器・パイプライン・保存先を組み立てます。
// API キーが無い場合は全ての生成が代替値になる Disabled バックエンドで起動します。
func BuildApp(ctx context.Context, cfg *config.Config) (*AppContext, error) {
	app := &AppContext{Config: cfg}

	writer, err := buildWriter(ctx, cfg.OutputDir, app)
	if err != nil {
		return nil, err
	}
	app.Writer = writer

	sink, err := asset.NewImageSink(writer, cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	text, image, err := InitializeGenerators(ctx, cfg, sink)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	tp, err := prompts.NewTextPromptBuilder()
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("プロンプトビルダーの初期化に失敗しました: %w", err)
	}

	app.PipelineConfig = cfg.Pipeline()
	composer := generator.NewStoryComposer(text, image, tp, prompts.NewImagePromptBuilder(app.PipelineConfig.StyleBlock), app.PipelineConfig)
	app.Pipeline = pipeline.New(composer)

	st, err := BuildStore(cfg)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	app.Store = st
	app.closers = append(app.closers, st.Close)

	app.Publisher = publisher.NewStorybookPublisher(writer)

	slog.Info("アプリケーションの初期化が完了したのだ",
		"backend", cfg.Backend,
		"text_model", cfg.TextModel,
		"image_model", cfg.ImageModel,
		"output", cfg.OutputDir)
	return app, nil
}

// InitializeGenerators はバックエンドに応じたテキスト・画像生成器を返します。
func InitializeGenerators(ctx context.Context, cfg *config.Config, sink ai.AssetSink) (ai.TextGenerator, ai.ImageGenerator, error) {
	if cfg.APIKey() == "" {
		slog.Warn("API キーが無いので全ての生成を代替値で行うのだ", "backend", cfg.Backend)
		d := ai.Disabled{Reason: "missing API key for " + cfg.Backend}
		return d, d, nil
	}

	switch cfg.Backend {
	case config.BackendGemini:
		client, err := ai.NewGeminiClient(ctx, cfg.GeminiAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("Gemini クライアントの初期化に失敗しました: %w", err)
		}
		return ai.NewGeminiText(client, cfg.TextModel), ai.NewGeminiImage(client, cfg.ImageModel, sink), nil
	case config.BackendOpenAI:
		client, err := ai.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			return nil, nil, fmt.Errorf("OpenAI クライアントの初期化に失敗しました: %w", err)
		}
		return ai.NewOpenAIText(client, cfg.TextModel), ai.NewOpenAIImage(client, cfg.ImageModel, sink), nil
	default:
		return nil, nil, fmt.Errorf("未対応のバックエンドです: %q", cfg.Backend)
	}
}

// BuildStore は DATABASE_PATH があれば SQLite、無ければメモリの Store を返します。
func BuildStore(cfg *config.Config) (store.Store, error) {
	if cfg.DatabasePath == "" {
		return store.NewMemoryStore(config.DefaultMemoryTTL, config.DefaultMemoryTTL/4), nil
	}
	st, err := store.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("ストアの初期化に失敗しました: %w", err)
	}
	return st, nil
}

// buildWriter は出力先が gs:// のときだけ GCS クライアントを作ります。
func buildWriter(ctx context.Context, outputDir string, app *AppContext) (asset.Writer, error) {
	w := asset.RoutingWriter{Local: asset.LocalWriter{}}
	if !asset.IsGCSPath(outputDir) {
		return w, nil
	}
	gcs, err := asset.NewGCSWriter(ctx)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, gcs.Close)
	w.GCS = gcs
	return w, nil
}
