package builder

import (
	"context"
	"errors"
	"testing"

	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/pkg/ai"
	"github.com/shouni/go-picturebook-kit/pkg/store"
)

func TestInitializeGenerators(t *testing.T) {
	ctx := context.Background()

	t.Run("API キーが無ければ Disabled になること", func(t *testing.T) {
		text, image, err := InitializeGenerators(ctx, &config.Config{Backend: config.BackendGemini}, nil)
		if err != nil {
			t.Fatalf("InitializeGenerators() error = %v", err)
		}
		if _, err := text.GenerateText(ctx, "p", ai.TextOptions{}); !errors.Is(err, ai.ErrUnavailable) {
			t.Errorf("error = %v", err)
		}
		if _, err := image.GenerateImage(ctx, "p", ai.ImageOptions{}); !errors.Is(err, ai.ErrUnavailable) {
			t.Errorf("error = %v", err)
		}
	})

	t.Run("OpenAI のキーで OpenAI の生成器になること", func(t *testing.T) {
		text, image, err := InitializeGenerators(ctx, &config.Config{Backend: config.BackendOpenAI, OpenAIAPIKey: "sk-test", TextModel: "gpt-4.1"}, nil)
		if err != nil {
			t.Fatalf("InitializeGenerators() error = %v", err)
		}
		if _, ok := text.(*ai.OpenAIText); !ok {
			t.Errorf("text = %T", text)
		}
		if _, ok := image.(*ai.OpenAIImage); !ok {
			t.Errorf("image = %T", image)
		}
	})

	t.Run("未知のバックエンドはエラーになること", func(t *testing.T) {
		if _, _, err := InitializeGenerators(ctx, &config.Config{Backend: "llama", GeminiAPIKey: "x"}, nil); err == nil {
			t.Error("エラーになるべきです")
		}
	})
}

func TestBuildApp(t *testing.T) {
	cfg := &config.Config{
		Backend:       config.BackendGemini,
		OutputDir:     t.TempDir(),
		DatabasePath:  ":memory:",
		MaxScenes:     3,
		BriefMaxWords: 60,
	}
	app, err := BuildApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("BuildApp() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Close() })

	if _, ok := app.Store.(*store.GormStore); !ok {
		t.Errorf("Store = %T, want *store.GormStore", app.Store)
	}
	if app.PipelineConfig.RateInterval != 0 {
		t.Errorf("RateInterval = %v", app.PipelineConfig.RateInterval)
	}

	res, err := app.Pipeline.Run(context.Background(), config.GenerateOptions{Name: "Maya"}.Request())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(res.Images) == 0 || res.Images[0] != app.PipelineConfig.FallbackImage {
		t.Errorf("Images = %v", res.Images)
	}
}
