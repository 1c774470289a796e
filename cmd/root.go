package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-picturebook-kit/internal/config"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	opts    config.GenerateOptions
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "picturebook",
	Short: "文化に配慮した子ども向けの絵本を生成するのだ。",
	Long: `主人公の名前・年齢・特性と文化的な文脈から、3幕構成の物語と
一貫した見た目のキャラクターの挿絵を生成するのだ。`,
	SilenceUsage:      true,
	PersistentPreRunE: preRunAppE,
}

func init() {
	addAppFlags(rootCmd)
	rootCmd.AddCommand(generateCmd, serveCmd)
}

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "デバッグログを出力するのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "生成物の保存先（ローカル or gs://...）なのだ。未指定なら OUTPUT_DIR を使うのだ。")
	rootCmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "生成バックエンド（gemini または openai）なのだ。未指定なら STORY_BACKEND を使うのだ。")
}

// preRunAppE は、コマンド実行前にロガーを設定するのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	setupLogger(verbose)
	return nil
}

// setupLogger は charmbracelet/log を slog のハンドラーとして設定するのだ。
func setupLogger(debug bool) {
	handler := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "picturebook",
	})
	if debug {
		handler.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(handler))
}

// loadConfig は環境変数を読み込み、フラグの値で上書きするのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.WithBackend(opts.Backend)
	if opts.OutputDir != "" {
		cfg.OutputDir = opts.OutputDir
	}
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// SIGINT と SIGTERM でコンテキストがキャンセルされるのだよ。
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		slog.Error("コマンドの実行に失敗したのだ", "error", err)
		stop()
		os.Exit(1)
	}
}
