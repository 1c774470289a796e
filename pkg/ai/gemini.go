package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"
)

// NewGeminiClient は Gemini API 用のクライアントを生成します。
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY が設定されていません: %w", ErrUnavailable)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("Geminiクライアントの初期化に失敗しました: %w: %w", ErrUnavailable, err)
	}
	return client, nil
}

// GeminiText は genai の GenerateContent を使うテキスト生成器です。
type GeminiText struct {
	client *genai.Client
	model  string
}

// NewGeminiText は GeminiText を生成します。
func NewGeminiText(client *genai.Client, model string) *GeminiText {
	return &GeminiText{client: client, model: model}
}

// GenerateText はプロンプトを送信し、応答テキストを返します。
func (g *GeminiText) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.JSON || opts.Schema != nil {
		config.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return "", classify("gemini text", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini text: empty response from %s: %w", g.model, ErrGeneration)
	}
	slog.DebugContext(ctx, "Gemini text response", "model", g.model, "excerpt", truncateString(text, 120))
	return text, nil
}

// GeminiImage は Gemini の画像モデル（または Imagen）で画像を生成し、Sink に保存します。
type GeminiImage struct {
	client *genai.Client
	model  string
	sink   AssetSink
}

// NewGeminiImage は GeminiImage を生成します。
func NewGeminiImage(client *genai.Client, model string, sink AssetSink) *GeminiImage {
	return &GeminiImage{client: client, model: model, sink: sink}
}

// GenerateImage は画像を生成して保存し、保存先の参照を返します。
func (g *GeminiImage) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (string, error) {
	var (
		data     []byte
		mimeType string
		err      error
	)
	if strings.HasPrefix(g.model, "imagen") {
		data, mimeType, err = g.generateWithImagen(ctx, prompt, opts)
	} else {
		data, mimeType, err = g.generateWithContent(ctx, prompt, opts)
	}
	if err != nil {
		return "", err
	}

	ref, err := g.sink.Save(ctx, opts.Name, data, mimeType)
	if err != nil {
		return "", fmt.Errorf("gemini image: 画像の保存に失敗しました: %w: %w", ErrGeneration, err)
	}
	return ref, nil
}

func (g *GeminiImage) generateWithContent(ctx context.Context, prompt string, opts ImageOptions) ([]byte, string, error) {
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
		Seed:               opts.Seed,
		ImageConfig: &genai.ImageConfig{
			AspectRatio: aspectRatioFor(opts.Size),
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		return nil, "", classify("gemini image", err)
	}

	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, part.InlineData.MIMEType, nil
			}
		}
	}
	return nil, "", fmt.Errorf("gemini image: no inline image in response from %s: %w", g.model, ErrGeneration)
}

func (g *GeminiImage) generateWithImagen(ctx context.Context, prompt string, opts ImageOptions) ([]byte, string, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.model, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    aspectRatioFor(opts.Size),
	})
	if err != nil {
		return nil, "", classify("imagen", err)
	}
	if len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return nil, "", fmt.Errorf("imagen: no image returned from %s: %w", g.model, ErrGeneration)
	}

	img := resp.GeneratedImages[0].Image
	if len(img.ImageBytes) == 0 {
		return nil, "", fmt.Errorf("imagen: empty image bytes: %w", ErrGeneration)
	}
	return img.ImageBytes, img.MIMEType, nil
}
