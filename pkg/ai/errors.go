package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrUnavailable はバックエンドに到達できない、または設定が不足しているときのエラーです。
	ErrUnavailable = errors.New("generation unavailable")
	// ErrGeneration はバックエンドが報告したそれ以外の失敗です。
	ErrGeneration = errors.New("generation error")
)

// classify はバックエンドのエラーを ErrUnavailable か ErrGeneration に分類します。
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrUnavailable) || errors.Is(err, ErrGeneration) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.As(err, &netErr) {
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrGeneration, err)
}

// IsFallbackWorthy はステージが代替値に切り替えるべきエラーかどうかを返します。
func IsFallbackWorthy(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, ErrGeneration)
}
