// Package telemetry は OpenTelemetry のトレーサープロバイダーを設定します。
package telemetry

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ServiceName はスパンに付けるサービス名です。
const ServiceName = "go-picturebook-kit"

// ShutdownFunc は溜まったスパンを書き出してプロバイダーを停止します。
type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// Init は enabled のときに stdout へスパンを書き出すプロバイダーをグローバルに設定します。
// 無効なら何もせず、グローバルの no-op プロバイダーのままにします。
func Init(enabled bool, w io.Writer) (ShutdownFunc, error) {
	if !enabled {
		return noop, nil
	}

	opts := []stdouttrace.Option{stdouttrace.WithPrettyPrint()}
	if w != nil {
		opts = append(opts, stdouttrace.WithWriter(w))
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return noop, fmt.Errorf("トレースエクスポーターの作成に失敗しました: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", ServiceName))),
	)
	otel.SetTracerProvider(tp)
	slog.Info("OpenTelemetry tracing initialized", "exporter", "stdout")
	return tp.Shutdown, nil
}
