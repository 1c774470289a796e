package ai

import (
	"cmp"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
)

// DefaultOpenAIImageSize は DALL-E 3 に渡す既定のサイズです。
const DefaultOpenAIImageSize = "1024x1024"

// NewOpenAIClient は OpenAI のクライアントを生成します。
func NewOpenAIClient(apiKey string) (*openai.Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY が設定されていません: %w", ErrUnavailable)
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &client, nil
}

// OpenAIText は Chat Completions を使うテキスト生成器です。
type OpenAIText struct {
	client *openai.Client
	model  string
}

// NewOpenAIText は OpenAIText を生成します。
func NewOpenAIText(client *openai.Client, model string) *OpenAIText {
	return &OpenAIText{client: client, model: model}
}

// GenerateText はプロンプトを user メッセージとして送信し、応答を返します。
func (o *OpenAIText) GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Role: "user",
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: prompt},
					},
				},
			},
		},
		Temperature: openai.Float(float64(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		params.MaxCompletionTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Schema != nil {
		params.ResponseFormat = structuredOutputFormat(cmp.Or(opts.SchemaName, "response"), opts.Schema)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", classifyOpenAI("openai text", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai text: no choices returned: %w", ErrGeneration)
	}

	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("openai text: empty completion content: %w", ErrGeneration)
	}
	slog.DebugContext(ctx, "OpenAI text response", "model", o.model, "excerpt", truncateString(content, 120))
	return content, nil
}

func structuredOutputFormat(name string, sample any) openai.ChatCompletionNewParamsResponseFormatUnion {
	p := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:   name,
		Schema: SchemaFor(sample),
		Strict: openai.Bool(true),
	}
	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: p},
	}
}

// OpenAIImage は Images API（DALL-E 3）で画像を生成します。
type OpenAIImage struct {
	client *openai.Client
	model  string
	sink   AssetSink
}

// NewOpenAIImage は OpenAIImage を生成します。sink は base64 で返された画像の保存に使います。
func NewOpenAIImage(client *openai.Client, model string, sink AssetSink) *OpenAIImage {
	return &OpenAIImage{client: client, model: model, sink: sink}
}

// GenerateImage は画像を1枚生成し、URL または保存先の参照を返します。
func (o *OpenAIImage) GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (string, error) {
	resp, err := o.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  openai.ImageModel(o.model),
		Size:   openai.ImageGenerateParamsSize(cmp.Or(opts.Size, DefaultOpenAIImageSize)),
		N:      openai.Int(1),
	})
	if err != nil {
		return "", classifyOpenAI("openai image", err)
	}
	if len(resp.Data) == 0 {
		return "", fmt.Errorf("openai image: no data returned: %w", ErrGeneration)
	}

	img := resp.Data[0]
	if img.URL != "" {
		return img.URL, nil
	}
	if img.B64JSON == "" || o.sink == nil {
		return "", fmt.Errorf("openai image: response has neither url nor data: %w", ErrGeneration)
	}

	data, err := base64.StdEncoding.DecodeString(img.B64JSON)
	if err != nil {
		return "", fmt.Errorf("openai image: base64 のデコードに失敗しました: %w: %w", ErrGeneration, err)
	}
	ref, err := o.sink.Save(ctx, opts.Name, data, "image/png")
	if err != nil {
		return "", fmt.Errorf("openai image: 画像の保存に失敗しました: %w: %w", ErrGeneration, err)
	}
	return ref, nil
}

// classifyOpenAI は認証エラーを ErrUnavailable として扱います。
func classifyOpenAI(op string, err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
		}
	}
	return classify(op, err)
}
