package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shouni/go-picturebook-kit/internal/builder"
	"github.com/shouni/go-picturebook-kit/internal/server"
	"github.com/shouni/go-picturebook-kit/internal/telemetry"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

// serveCmd は、絵本生成の HTTP API を起動するのだ。
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "絵本生成の HTTP API を起動しますなのだ。",
	RunE:  serveCommand,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "待ち受けアドレスなのだ。未指定なら SERVER_ADDR を使うのだ。")
}

func serveCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := loadConfig()
	if serveAddr != "" {
		cfg.ServerAddr = serveAddr
	}

	shutdownTracing, err := telemetry.Init(cfg.OtelEnabled, nil)
	if err != nil {
		return err
	}
	defer func() { _ = shutdownTracing(context.WithoutCancel(ctx)) }()

	app, err := builder.BuildApp(ctx, cfg)
	if err != nil {
		return fmt.Errorf("アプリケーションの構築に失敗したのだ: %w", err)
	}
	defer app.Close()

	srv := server.New(app.Pipeline, app.Store, app.PipelineConfig, cfg.RequestTimeout)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.ServerAddr)
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP サーバーが異常終了したのだ: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP サーバーの停止に失敗したのだ: %w", err)
	}
	slog.Info("HTTP サーバーを停止したのだ")
	return nil
}
