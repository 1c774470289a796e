// Package aitest はテスト用の生成器のフェイクを提供します。
package aitest

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shouni/go-picturebook-kit/pkg/ai"
)

// Call は記録された1回分の呼び出しです。
type Call struct {
	Prompt string
	Opts   ai.TextOptions
}

type route struct {
	marker string
	text   string
	err    error
}

// ScriptedText はプロンプトに含まれるマーカー文字列で応答を切り替えるフェイクです。
// どのマーカーにも一致しない呼び出しは ai.ErrUnavailable で失敗します。
type ScriptedText struct {
	mu     sync.Mutex
	routes []route
	calls  []Call
}

// NewScriptedText は空の ScriptedText を返します。
func NewScriptedText() *ScriptedText {
	return &ScriptedText{}
}

// On は marker を含むプロンプトに text を返すよう登録します。
func (s *ScriptedText) On(marker, text string) *ScriptedText {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, route{marker: marker, text: text})
	return s
}

// Fail は marker を含むプロンプトに err を返すよう登録します。
func (s *ScriptedText) Fail(marker string, err error) *ScriptedText {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, route{marker: marker, err: err})
	return s
}

// GenerateText は登録順に最初に一致した応答を返します。
func (s *ScriptedText) GenerateText(ctx context.Context, prompt string, opts ai.TextOptions) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, Call{Prompt: prompt, Opts: opts})

	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, r := range s.routes {
		if strings.Contains(prompt, r.marker) {
			if r.err != nil {
				return "", r.err
			}
			return r.text, nil
		}
	}
	return "", fmt.Errorf("no scripted reply: %w", ai.ErrUnavailable)
}

// Calls はこれまでの呼び出しのコピーを返します。
func (s *ScriptedText) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallsMatching は marker を含む呼び出しだけを返します。
func (s *ScriptedText) CallsMatching(marker string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if strings.Contains(c.Prompt, marker) {
			out = append(out, c)
		}
	}
	return out
}

// RecordingImage はプロンプトを記録し、名前から参照を組み立てて返すフェイクです。
type RecordingImage struct {
	// Prefix は返す参照の接頭辞です。
	Prefix string
	// FailWhen が true を返した呼び出しは ai.ErrGeneration で失敗します。
	FailWhen func(prompt string, opts ai.ImageOptions) bool

	mu      sync.Mutex
	prompts []string
	opts    []ai.ImageOptions
}

// GenerateImage は "<Prefix>/<Name>.png" を返します。
func (r *RecordingImage) GenerateImage(ctx context.Context, prompt string, opts ai.ImageOptions) (string, error) {
	r.mu.Lock()
	r.prompts = append(r.prompts, prompt)
	r.opts = append(r.opts, opts)
	r.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.FailWhen != nil && r.FailWhen(prompt, opts) {
		return "", fmt.Errorf("scripted image failure: %w", ai.ErrGeneration)
	}
	return fmt.Sprintf("%s/%s.png", r.Prefix, opts.Name), nil
}

// Prompts は記録されたプロンプトのコピーを返します。順序は呼び出し順です。
func (r *RecordingImage) Prompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

// Options は記録されたオプションのコピーを返します。
func (r *RecordingImage) Options() []ai.ImageOptions {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]ai.ImageOptions(nil), r.opts...)
}

// PanickingImage は呼び出されると Value でパニックを起こす ImageGenerator です。
type PanickingImage struct {
	Value any
}

// GenerateImage は常にパニックします。
func (p PanickingImage) GenerateImage(context.Context, string, ai.ImageOptions) (string, error) {
	panic(p.Value)
}
