package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/store"

	"github.com/labstack/echo/v4"
)

const (
	defaultListLimit = 20
	fallbackTitle    = "A Story for You"
	fallbackStory    = "Once upon a time, a curious child set out to discover something new. " +
		"Along the way, they met a friend who needed help, and together they found a kind and clever answer. " +
		"By the end of the day, they learned that curiosity and kindness can light up any path.\n\nThe End."
)

// StoryResponse は POST /api/stories の応答です。
type StoryResponse struct {
	ID        string   `json:"id,omitempty"`
	Title     string   `json:"title"`
	Story     string   `json:"story"`
	Images    []string `json:"images"`
	ModelUsed string   `json:"model_used"`
	Success   bool     `json:"success"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// GET /
func (s *Server) handleGetRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "model": domain.ModelTag})
}

// POST /api/stories
func (s *Server) handlePostStory(c echo.Context) error {
	var req domain.Request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid json")
	}

	ctx := c.Request().Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.pipeline.Run(ctx, req)
	if err != nil {
		slog.ErrorContext(ctx, "絵本の生成に失敗したので汎用の物語を返すのだ", "error", err)
		return c.JSON(http.StatusOK, s.fallbackResponse())
	}

	images := result.PaddedImages(s.cfg.ImageCount, s.cfg.FallbackImage)
	rec, err := store.NewRecord(result, images)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to prepare story record"})
	}
	id, err := s.store.Save(ctx, rec)
	if err != nil {
		slog.ErrorContext(ctx, "絵本の保存に失敗したのだ", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to save story"})
	}

	return c.JSON(http.StatusOK, StoryResponse{
		ID:        id,
		Title:     rec.Title,
		Story:     result.StoryText,
		Images:    images,
		ModelUsed: result.Metadata.Model,
		Success:   true,
	})
}

// GET /api/stories/:id
func (s *Server) handleGetStory(c echo.Context) error {
	rec, err := s.store.Load(c.Request().Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, errorResponse{Error: "story not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to load story"})
	}
	return c.JSON(http.StatusOK, rec)
}

// GET /api/stories?limit=N
func (s *Server) handleListStories(c echo.Context) error {
	limit := defaultListLimit
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	recs, err := s.store.List(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list stories"})
	}
	return c.JSON(http.StatusOK, recs)
}

// fallbackResponse はパイプラインが失敗したときの汎用の物語です。
func (s *Server) fallbackResponse() StoryResponse {
	empty := &domain.GenerationResult{}
	return StoryResponse{
		Title:     fallbackTitle,
		Story:     fallbackStory,
		Images:    empty.PaddedImages(s.cfg.ImageCount, s.cfg.FallbackImage),
		ModelUsed: "fallback",
		Success:   false,
	}
}
