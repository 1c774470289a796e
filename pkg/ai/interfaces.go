package ai

import "context"

// TextOptions はテキスト生成1回分のパラメータです。
type TextOptions struct {
	Temperature float32
	MaxTokens   int
	// JSON が true のとき、バックエンドに JSON での応答を要求します。
	JSON bool
	// Schema は構造化出力に使う型のサンプル値です。対応するバックエンドだけが使います。
	Schema any
	// SchemaName は構造化出力のスキーマ名です。
	SchemaName string
}

// ImageOptions は画像生成1回分のパラメータです。
type ImageOptions struct {
	Size string
	Seed *int32
	// Name は保存先のファイル名のヒントです（例: "scene_1"）。
	Name string
}

// TextGenerator はテキスト生成の能力です。
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string, opts TextOptions) (string, error)
}

// ImageGenerator は画像生成の能力です。戻り値は画像への参照（パスまたは URL）です。
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string, opts ImageOptions) (string, error)
}

// AssetSink は生成された画像バイト列を保存し、参照を返します。
type AssetSink interface {
	Save(ctx context.Context, name string, data []byte, mimeType string) (string, error)
}
