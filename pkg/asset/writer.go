package asset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cloud.google.com/go/storage"
)

// Writer は生成物を保存先に書き込みます。
type Writer interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
}

// LocalWriter はローカルファイルシステムに書き込みます。親ディレクトリは必要に応じて作成します。
type LocalWriter struct{}

// Write は path にファイルを作成して r の内容を書き込みます。
func (LocalWriter) Write(ctx context.Context, path string, r io.Reader, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ディレクトリの作成に失敗しました: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ファイル '%s' の作成に失敗しました: %w", path, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return fmt.Errorf("ファイル '%s' への書き込みに失敗しました: %w", path, err)
	}
	return f.Close()
}

// GCSWriter は gs://bucket/object 形式のパスに書き込みます。
type GCSWriter struct {
	client *storage.Client
}

// NewGCSWriter は既定の認証情報で GCS クライアントを作成します。
func NewGCSWriter(ctx context.Context) (*GCSWriter, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("GCS クライアントの作成に失敗しました: %w", err)
	}
	return &GCSWriter{client: client}, nil
}

// Write はオブジェクトを作成して r の内容をアップロードします。
func (w *GCSWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	bucket, object, err := SplitGCSPath(path)
	if err != nil {
		return err
	}
	ow := w.client.Bucket(bucket).Object(object).NewWriter(ctx)
	ow.ContentType = contentType
	if _, err := io.Copy(ow, r); err != nil {
		_ = ow.Close()
		return fmt.Errorf("GCS '%s' への書き込みに失敗しました: %w", path, err)
	}
	if err := ow.Close(); err != nil {
		return fmt.Errorf("GCS '%s' のアップロード完了に失敗しました: %w", path, err)
	}
	return nil
}

// Close は GCS クライアントを閉じます。
func (w *GCSWriter) Close() error {
	return w.client.Close()
}

// RoutingWriter はパスの形式で書き込み先を振り分けます。gs:// は GCS、それ以外はローカルです。
type RoutingWriter struct {
	Local Writer
	GCS   Writer
}

// Write はパスに応じた Writer に委譲します。
func (w RoutingWriter) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	if IsGCSPath(path) {
		if w.GCS == nil {
			return errors.New("GCS への書き込みが設定されていません")
		}
		return w.GCS.Write(ctx, path, r, contentType)
	}
	local := w.Local
	if local == nil {
		local = LocalWriter{}
	}
	return local.Write(ctx, path, r, contentType)
}
