package asset

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"path"
	"strings"

	"github.com/gen2brain/webp"
)

const (
	webpMIMEType       = "image/webp"
	defaultWebPQuality = 90
)

// ImageSink は生成された画像を WebP に変換して出力先の images ディレクトリへ保存します。
// ai.AssetSink を満たします。
type ImageSink struct {
	writer  Writer
	baseDir string
	quality int
}

// NewImageSink は outputDir 配下の images ディレクトリに保存する ImageSink を生成します。
func NewImageSink(writer Writer, outputDir string) (*ImageSink, error) {
	dir, err := ResolveOutputPath(outputDir, DefaultImageDir)
	if err != nil {
		return nil, fmt.Errorf("画像ディレクトリの解決に失敗しました: %w", err)
	}
	return &ImageSink{writer: writer, baseDir: dir, quality: defaultWebPQuality}, nil
}

// Save は画像を保存して保存先のパスを返します。
// name は "runID/scene_1" のようにサブディレクトリを含められます。空なら scene.webp になります。
func (s *ImageSink) Save(ctx context.Context, name string, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("画像データが空です")
	}

	dir, fileName, err := s.splitName(name)
	if err != nil {
		return "", err
	}

	encoded, err := s.toWebP(data, mimeType)
	if err != nil {
		return "", err
	}

	target, err := ResolveOutputPath(dir, fileName)
	if err != nil {
		return "", fmt.Errorf("出力パスの解決に失敗しました: %w", err)
	}

	if err := s.writer.Write(ctx, target, bytes.NewReader(encoded), webpMIMEType); err != nil {
		return "", fmt.Errorf("画像の書き込みに失敗しました %s: %w", target, err)
	}
	slog.DebugContext(ctx, "Image saved", "path", target, "bytes", len(encoded), "source_mime", mimeType)
	return target, nil
}

// splitName は name を保存先ディレクトリとファイル名に分けます。親ディレクトリへ出る名前は拒否します。
func (s *ImageSink) splitName(name string) (dir, fileName string, err error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return s.baseDir, DefaultSceneFileName, nil
	}
	cleaned := path.Clean(name)
	if path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", "", fmt.Errorf("画像名が不正です: %q", name)
	}

	dir = s.baseDir
	sub, base := path.Split(cleaned)
	if sub = strings.Trim(sub, "/"); sub != "" {
		dir, err = ResolveOutputPath(s.baseDir, sub)
		if err != nil {
			return "", "", fmt.Errorf("画像ディレクトリの解決に失敗しました: %w", err)
		}
	}
	return dir, base + ".webp", nil
}

func (s *ImageSink) toWebP(data []byte, mimeType string) ([]byte, error) {
	if mimeType == webpMIMEType {
		return data, nil
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました (%s): %w", mimeType, err)
	}
	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, webp.Options{Quality: s.quality}); err != nil {
		return nil, fmt.Errorf("WebP へのエンコードに失敗しました (%s): %w", format, err)
	}
	return buf.Bytes(), nil
}
