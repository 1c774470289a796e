package telemetry

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestInit(t *testing.T) {
	t.Run("無効なら何もしないこと", func(t *testing.T) {
		shutdown, err := Init(false, nil)
		if err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if err := shutdown(context.Background()); err != nil {
			t.Errorf("shutdown() error = %v", err)
		}
	})

	t.Run("有効ならスパンを書き出すこと", func(t *testing.T) {
		prev := otel.GetTracerProvider()
		t.Cleanup(func() { otel.SetTracerProvider(prev) })

		var buf bytes.Buffer
		shutdown, err := Init(true, &buf)
		if err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		_, span := otel.Tracer("test").Start(context.Background(), "picturebook.test")
		span.End()

		if err := shutdown(context.Background()); err != nil {
			t.Fatalf("shutdown() error = %v", err)
		}
		if !strings.Contains(buf.String(), "picturebook.test") {
			t.Errorf("スパンが出力されていません:\n%s", buf.String())
		}
	})
}
