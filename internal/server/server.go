// Package server は絵本生成を HTTP で公開する薄いリクエスト層です。
package server

import (
	"context"
	"log/slog"
	"time"

	pbconfig "github.com/shouni/go-picturebook-kit/pkg/config"
	"github.com/shouni/go-picturebook-kit/pkg/pipeline"
	"github.com/shouni/go-picturebook-kit/pkg/store"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server は echo のルーティングとパイプライン・ストアを束ねます。
type Server struct {
	Echo     *echo.Echo
	pipeline pipeline.Runner
	store    store.Store
	cfg      pbconfig.Config
	timeout  time.Duration
}

// New は新しい Server を生成してルートを登録します。timeout が正なら1リクエストの生成時間を制限します。
func New(runner pipeline.Runner, st store.Store, cfg pbconfig.Config, timeout time.Duration) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		Echo:     e,
		pipeline: runner,
		store:    st,
		cfg:      cfg.Normalize(),
		timeout:  timeout,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	api := s.Echo.Group("/api")
	api.POST("/stories", s.handlePostStory)
	api.GET("/stories", s.handleListStories)
	api.GET("/stories/:id", s.handleGetStory)
}

// Start は addr で待ち受けを開始します。
func (s *Server) Start(addr string) error {
	slog.Info("HTTP サーバーを起動するのだ", "addr", addr)
	return s.Echo.Start(addr)
}

// Shutdown は処理中のリクエストを待ってから停止します。
func (s *Server) Shutdown(ctx context.Context) error {
	slog.Info("HTTP サーバーを停止するのだ")
	return s.Echo.Shutdown(ctx)
}
