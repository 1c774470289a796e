package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/shouni/go-picturebook-kit/examples"
	"github.com/shouni/go-picturebook-kit/internal/builder"
	"github.com/shouni/go-picturebook-kit/internal/config"
	"github.com/shouni/go-picturebook-kit/internal/telemetry"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/publisher"
	"github.com/shouni/go-picturebook-kit/pkg/store"

	"github.com/spf13/cobra"
)

// generateCmd は、1冊分の絵本を生成して出力先に書き出すのだ。
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "絵本を1冊生成しますなのだ。",
	Long: `フラグまたは JSON ファイルのリクエストから物語と挿絵を生成するのだ。
出力は storybook.md・story.json・images/ 配下の挿絵になるのだよ。`,
	Example: `  picturebook generate --name Maya --age 7-9 --traits brave,kind --location Tokyo
  picturebook generate --input-file request.json -o gs://my-bucket/books/maya`,
	RunE: generateCommand,
}

var useExample bool

func init() {
	f := generateCmd.Flags()
	f.BoolVar(&useExample, "example", false, "同梱のサンプルリクエスト（Maya, 東京）で生成するのだ。")
	f.StringVarP(&opts.InputFile, "input-file", "f", "", "リクエスト JSON のパス（'-'で標準入力なのだ）。指定時は主人公のフラグを無視するのだ。")

	f.StringVar(&opts.Name, "name", "", "主人公の名前なのだ。")
	f.StringVar(&opts.Age, "age", "", "年齢（\"7-9\" や \"8\" など）なのだ。")
	f.StringVar(&opts.CharacterType, "type", "", "主人公の種別（human, animal など）なのだ。")
	f.StringVar(&opts.Gender, "gender", "", "主人公の性別なのだ。")
	f.StringSliceVar(&opts.Traits, "traits", nil, "性格の特性（カンマ区切り）なのだ。")

	f.StringVar(&opts.Location, "location", "", "物語の舞台なのだ。")
	f.StringVar(&opts.Theme, "theme", "", "物語のテーマなのだ。")
	f.StringVar(&opts.StoryLength, "length", "", "物語の長さ（short, medium, long）なのだ。")
	f.StringVar(&opts.ReadingLevel, "reading-level", "", "読解レベル（early, developing, confident）なのだ。")

	f.StringVar(&opts.Background, "background", "", "文化的な背景なのだ。")
	f.StringVar(&opts.Region, "region", "", "地域なのだ。")
	f.StringVar(&opts.Traditions, "traditions", "", "取り入れたい伝統や行事なのだ。")
}

func generateCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()

	req, err := buildRequest(cfg.Options)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(cfg.OtelEnabled, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("トレースの書き出しに失敗したのだ", "error", err)
		}
	}()

	app, err := builder.BuildApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの構築に失敗したのだ: %w", err)
	}
	defer app.Close()

	slog.Info("絵本生成パイプラインを起動するのだ！",
		"backend", cfg.Backend,
		"text_model", cfg.TextModel,
		"image_model", cfg.ImageModel,
		"output", cfg.OutputDir)

	runCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	defer cancel()
	result, err := app.Pipeline.Run(runCtx, req)
	if err != nil {
		return fmt.Errorf("パイプライン実行中にエラーが発生したのだ: %w", err)
	}

	pc := app.PipelineConfig
	published, err := app.Publisher.Publish(ctx, result, publisher.Options{
		OutputDir:   cfg.OutputDir,
		ImageCount:  pc.ImageCount,
		Placeholder: pc.FallbackImage,
	})
	if err != nil {
		return fmt.Errorf("絵本の書き出しに失敗したのだ: %w", err)
	}

	rec, err := store.NewRecord(result, result.PaddedImages(pc.ImageCount, pc.FallbackImage))
	if err != nil {
		return err
	}
	id, err := app.Store.Save(ctx, rec)
	if err != nil {
		return fmt.Errorf("絵本の保存に失敗したのだ: %w", err)
	}

	slog.Info("すべての生成工程が完了したのだ！",
		"id", id,
		"title", rec.Title,
		"markdown", published.MarkdownPath,
		"json", published.JSONPath,
		"fallbacks", result.Metadata.Fallbacks)
	return nil
}

// buildRequest は --example、--input-file、フラグの順にリクエストを組み立てるのだ。
func buildRequest(o config.GenerateOptions) (domain.Request, error) {
	if useExample {
		return examples.LoadRequest()
	}
	if o.InputFile == "" {
		return o.Request(), nil
	}

	var r io.Reader = os.Stdin
	if o.InputFile != "-" {
		f, err := os.Open(o.InputFile)
		if err != nil {
			return domain.Request{}, fmt.Errorf("入力ファイル '%s' の読み込みに失敗しました: %w", o.InputFile, err)
		}
		defer f.Close()
		r = f
	}

	var req domain.Request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return domain.Request{}, fmt.Errorf("入力ファイル '%s' のデコードに失敗しました: %w", o.InputFile, err)
	}
	return req, nil
}
