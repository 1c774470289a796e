package ai

import (
	"context"
	"errors"
	"net"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		wantUnavailable bool
	}{
		{"タイムアウトは Unavailable", context.DeadlineExceeded, true},
		{"ネットワークエラーは Unavailable", &net.OpError{Op: "dial", Err: errors.New("refused")}, true},
		{"それ以外は Generation", errors.New("quota exceeded"), false},
		{"分類済みのエラーは維持されること", ErrUnavailable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("op", tt.err)
			if errors.Is(got, ErrUnavailable) != tt.wantUnavailable {
				t.Errorf("classify(%v) = %v, unavailable want %v", tt.err, got, tt.wantUnavailable)
			}
			if !IsFallbackWorthy(got) {
				t.Errorf("分類後のエラーは代替対象であるべきです: %v", got)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("元のエラーが失われています: %v", got)
			}
		})
	}

	if classify("op", nil) != nil {
		t.Error("nil は nil のままであるべきです")
	}
}

func TestIsFallbackWorthy(t *testing.T) {
	if IsFallbackWorthy(errors.New("boom")) {
		t.Error("未分類のエラーは代替対象ではありません")
	}
}

func TestDisabled(t *testing.T) {
	d := Disabled{Reason: "no api key"}
	if _, err := d.GenerateText(context.Background(), "p", TextOptions{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("GenerateText() error = %v", err)
	}
	if _, err := d.GenerateImage(context.Background(), "p", ImageOptions{}); !errors.Is(err, ErrUnavailable) {
		t.Errorf("GenerateImage() error = %v", err)
	}
}

func TestNewClients_RequireKeys(t *testing.T) {
	if _, err := NewGeminiClient(context.Background(), ""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewGeminiClient() error = %v", err)
	}
	if _, err := NewOpenAIClient(""); !errors.Is(err, ErrUnavailable) {
		t.Errorf("NewOpenAIClient() error = %v", err)
	}
}
