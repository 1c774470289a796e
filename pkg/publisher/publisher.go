package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/shouni/go-picturebook-kit/pkg/asset"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// Options はパブリッシュ動作を制御する設定項目です。
type Options struct {
	OutputDir string
	// ImageCount が正なら画像リストをこの件数に揃え、足りない分を Placeholder で埋めます。
	ImageCount  int
	Placeholder string
}

// PublishResult はパブリッシュ処理の結果として生成されたファイルの情報を保持します。
type PublishResult struct {
	MarkdownPath string   // 生成された storybook.md のパス
	JSONPath     string   // 生成された story.json のパス
	ImagePaths   []string // Markdown に埋め込んだ画像の参照
}

// StorybookPublisher は生成結果を絵本形式の Markdown と JSON で書き出します。
type StorybookPublisher struct {
	writer asset.Writer
}

// NewStorybookPublisher は新しい StorybookPublisher を生成します。
func NewStorybookPublisher(writer asset.Writer) *StorybookPublisher {
	return &StorybookPublisher{writer: writer}
}

// Publish は Markdown と JSON を出力先に書き込み、生成されたファイル情報を返すのだ。
func (p *StorybookPublisher) Publish(ctx context.Context, result *domain.GenerationResult, opts Options) (PublishResult, error) {
	out := PublishResult{}
	if result == nil {
		return out, fmt.Errorf("公開する生成結果がありません")
	}

	markdownPath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultStorybookName)
	if err != nil {
		return out, err
	}
	jsonPath, err := asset.ResolveOutputPath(opts.OutputDir, asset.DefaultStoryJSON)
	if err != nil {
		return out, err
	}

	images := result.Images
	if opts.ImageCount > 0 {
		images = result.PaddedImages(opts.ImageCount, opts.Placeholder)
	}
	refs := make([]string, 0, len(images))
	for _, img := range images {
		refs = append(refs, relativeRef(opts.OutputDir, img))
	}
	out.ImagePaths = refs

	content := BuildMarkdown(result, refs)
	if err := p.writer.Write(ctx, markdownPath, strings.NewReader(content), "text/markdown; charset=utf-8"); err != nil {
		return out, fmt.Errorf("markdownファイルの書き込みに失敗しました: %w", err)
	}
	out.MarkdownPath = markdownPath

	body, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return out, fmt.Errorf("生成結果のエンコードに失敗しました: %w", err)
	}
	if err := p.writer.Write(ctx, jsonPath, bytes.NewReader(body), "application/json"); err != nil {
		return out, fmt.Errorf("JSONファイルの書き込みに失敗しました: %w", err)
	}
	out.JSONPath = jsonPath

	slog.InfoContext(ctx, "Storybook published", "title", result.Title(), "markdown", markdownPath, "json", jsonPath)
	return out, nil
}

// BuildMarkdown はタイトル・教訓・挿絵・本文を並べた Markdown を返します。
// 挿絵の見出しには場面の短いタイトルを使い、無ければ局面ラベルを使います。
func BuildMarkdown(result *domain.GenerationResult, imageRefs []string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", result.Title()))

	if moral := strings.TrimSpace(result.StoryPlan.Moral); moral != "" {
		sb.WriteString(fmt.Sprintf("> %s\n\n", moral))
	}

	for i, ref := range imageRefs {
		caption := string(domain.PhaseForIndex(i))
		if i < len(result.Scenes) && strings.TrimSpace(result.Scenes[i].ShortTitle) != "" {
			caption = strings.TrimSpace(result.Scenes[i].ShortTitle)
		}
		if caption == "" {
			caption = fmt.Sprintf("Scene %d", i+1)
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n![%s](%s)\n\n", caption, caption, ref))
	}

	sb.WriteString("## Story\n\n")
	sb.WriteString(strings.TrimSpace(result.StoryText))
	sb.WriteString("\n")
	return sb.String()
}

// relativeRef は出力先配下の画像を Markdown から見た相対パスにします。それ以外はそのまま返します。
func relativeRef(outputDir, ref string) string {
	base := strings.TrimRight(outputDir, "/\\")
	if base == "" {
		return ref
	}
	for _, sep := range []string{"/", "\\"} {
		if rest, ok := strings.CutPrefix(ref, base+sep); ok {
			return path.Join(strings.Split(strings.ReplaceAll(rest, "\\", "/"), "/")...)
		}
	}
	return ref
}
