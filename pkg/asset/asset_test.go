package asset

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gen2brain/webp"
)

func TestSplitGCSPath(t *testing.T) {
	bucket, object, err := SplitGCSPath("gs://books/out/images/scene_1.webp")
	if err != nil {
		t.Fatalf("SplitGCSPath() error = %v", err)
	}
	if bucket != "books" || object != "out/images/scene_1.webp" {
		t.Errorf("期待値 books out/images/scene_1.webp, 実際の値 %s %s", bucket, object)
	}

	for _, bad := range []string{"out/images", "gs://books", "gs:///object"} {
		if _, _, err := SplitGCSPath(bad); err == nil {
			t.Errorf("%q はエラーになるべきです", bad)
		}
	}
}

// recordingWriter は書き込まれた内容をメモリに保持します。
type recordingWriter struct {
	files map[string][]byte
	types map[string]string
}

func newRecordingWriter() *recordingWriter {
	return &recordingWriter{files: map[string][]byte{}, types: map[string]string{}}
}

func (w *recordingWriter) Write(_ context.Context, path string, r io.Reader, contentType string) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	w.files[path] = b
	w.types[path] = contentType
	return nil
}

func TestRoutingWriter(t *testing.T) {
	ctx := context.Background()
	gcs := newRecordingWriter()
	w := RoutingWriter{GCS: gcs}

	if err := w.Write(ctx, "gs://books/a.txt", strings.NewReader("remote"), "text/plain"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if string(gcs.files["gs://books/a.txt"]) != "remote" {
		t.Error("GCS に振り分けられていません")
	}

	local := filepath.Join(t.TempDir(), "nested", "a.txt")
	if err := w.Write(ctx, local, strings.NewReader("local"), "text/plain"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if b, err := os.ReadFile(local); err != nil || string(b) != "local" {
		t.Errorf("ローカルに書き込まれていません: %q, %v", b, err)
	}

	if err := (RoutingWriter{}).Write(ctx, "gs://books/a.txt", strings.NewReader("x"), ""); err == nil {
		t.Error("GCS 未設定ならエラーになるべきです")
	}
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

func TestImageSink_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("PNG を WebP に変換して images 配下に保存すること", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewImageSink(LocalWriter{}, dir)
		if err != nil {
			t.Fatalf("NewImageSink() error = %v", err)
		}

		ref, err := sink.Save(ctx, "scene_2", pngBytes(t), "image/png")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		want := filepath.Join(dir, DefaultImageDir, "scene_2.webp")
		if ref != want {
			t.Errorf("期待値 %s, 実際の値 %s", want, ref)
		}

		f, err := os.Open(ref)
		if err != nil {
			t.Fatalf("保存先を開けません: %v", err)
		}
		defer f.Close()
		img, err := webp.Decode(f)
		if err != nil {
			t.Fatalf("WebP としてデコードできません: %v", err)
		}
		if img.Bounds().Dx() != 8 {
			t.Errorf("幅 = %d, want 8", img.Bounds().Dx())
		}
	})

	t.Run("GCS の出力先ではパスを結合して書き込むこと", func(t *testing.T) {
		w := newRecordingWriter()
		sink, err := NewImageSink(w, "gs://books/run-1")
		if err != nil {
			t.Fatalf("NewImageSink() error = %v", err)
		}
		ref, err := sink.Save(ctx, "scene_1", pngBytes(t), "image/png")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if ref != "gs://books/run-1/images/scene_1.webp" {
			t.Errorf("ref = %s", ref)
		}
		if w.types[ref] != "image/webp" {
			t.Errorf("Content-Type = %q", w.types[ref])
		}
	})

	t.Run("実行 ID ごとのサブディレクトリに分けて保存すること", func(t *testing.T) {
		dir := t.TempDir()
		sink, err := NewImageSink(LocalWriter{}, dir)
		if err != nil {
			t.Fatalf("NewImageSink() error = %v", err)
		}

		first, err := sink.Save(ctx, "run-a/scene_1", pngBytes(t), "image/png")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		second, err := sink.Save(ctx, "run-b/scene_1", pngBytes(t), "image/png")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		if want := filepath.Join(dir, "images", "run-a", "scene_1.webp"); first != want {
			t.Errorf("期待値 %s, 実際の値 %s", want, first)
		}
		if first == second {
			t.Fatalf("2つの実行が同じファイル %s を共有しています", first)
		}
		for _, ref := range []string{first, second} {
			if _, err := os.Stat(ref); err != nil {
				t.Errorf("%s が存在しません: %v", ref, err)
			}
		}
	})

	t.Run("GCS でも実行 ID のサブディレクトリを付けること", func(t *testing.T) {
		w := newRecordingWriter()
		sink, err := NewImageSink(w, "gs://books/out")
		if err != nil {
			t.Fatalf("NewImageSink() error = %v", err)
		}
		ref, err := sink.Save(ctx, "run-a/scene_2", pngBytes(t), "image/png")
		if err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if ref != "gs://books/out/images/run-a/scene_2.webp" {
			t.Errorf("ref = %s", ref)
		}
	})

	t.Run("親ディレクトリへ出る名前は拒否すること", func(t *testing.T) {
		w := newRecordingWriter()
		sink, _ := NewImageSink(w, t.TempDir())
		for _, name := range []string{"../scene_1", "/etc/scene_1", "run/../../x"} {
			if _, err := sink.Save(ctx, name, pngBytes(t), "image/png"); err == nil {
				t.Errorf("Save(%q) はエラーになるべきです", name)
			}
		}
		if len(w.types) != 0 {
			t.Errorf("書き込みが発生しました: %v", w.types)
		}
	})

	t.Run("画像でないデータはエラーになること", func(t *testing.T) {
		sink, _ := NewImageSink(newRecordingWriter(), t.TempDir())
		if _, err := sink.Save(ctx, "scene_1", []byte("not an image"), "image/png"); err == nil {
			t.Error("エラーになるべきです")
		}
		if _, err := sink.Save(ctx, "scene_1", nil, "image/png"); err == nil {
			t.Error("空データはエラーになるべきです")
		}
	})
}
