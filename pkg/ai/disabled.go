package ai

import (
	"context"
	"fmt"
)

// Disabled は認証情報が無いときに使うバックエンドです。全ての呼び出しが ErrUnavailable で失敗します。
type Disabled struct {
	Reason string
}

// GenerateText は常に ErrUnavailable を返します。
func (d Disabled) GenerateText(_ context.Context, _ string, _ TextOptions) (string, error) {
	return "", fmt.Errorf("text backend disabled (%s): %w", d.Reason, ErrUnavailable)
}

// GenerateImage は常に ErrUnavailable を返します。
func (d Disabled) GenerateImage(_ context.Context, _ string, _ ImageOptions) (string, error) {
	return "", fmt.Errorf("image backend disabled (%s): %w", d.Reason, ErrUnavailable)
}
