package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/shouni/go-picturebook-kit/pkg/ai"
	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
)

func TestFallbackLevel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want slog.Level
	}{
		{"バックエンド不達は Warn", fmt.Errorf("text: %w", ai.ErrUnavailable), slog.LevelWarn},
		{"生成エラーは Warn", fmt.Errorf("text: %w", ai.ErrGeneration), slog.LevelWarn},
		{"応答の解析失敗は Warn", errMissingFields("visual_identity", []string{"skin_tone"}), slog.LevelWarn},
		{"ビート数の不正は Warn", fmt.Errorf("%w: 2 beats", domain.ErrInvalidPlan), slog.LevelWarn},
		{"キャンセルは Warn", context.Canceled, slog.LevelWarn},
		{"想定外のエラーは Error", errors.New("template: missing key"), slog.LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fallbackLevel(tt.err); got != tt.want {
				t.Errorf("期待値 %v, 実際の値 %v", tt.want, got)
			}
		})
	}

	if !errors.Is(errMissingFields("x", nil), parser.ErrMalformedResponse) {
		t.Error("errMissingFields は ErrMalformedResponse を包むべきです")
	}
}
