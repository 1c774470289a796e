package domain

import (
	"slices"
	"strings"
	"time"
)

// TerminalMarker は物語の最後に置く終端行です。
const TerminalMarker = "The End."

// ModelTag は結果に記録するパイプラインの識別子です。
const ModelTag = "B"

// Phase は画像の位置に対応する局面ラベルです。
type Phase string

const (
	PhaseBeginning Phase = "beginning"
	PhaseMiddle    Phase = "middle"
	PhaseEnd       Phase = "end"
)

var phases = []Phase{PhaseBeginning, PhaseMiddle, PhaseEnd}

// PhaseForIndex は 0 始まりの位置から局面ラベルを返します。範囲外は空です。
func PhaseForIndex(i int) Phase {
	if i < 0 || i >= len(phases) {
		return ""
	}
	return phases[i]
}

// EnsureTerminalMarker は本文が終端行で終わるようにします。
// 末尾の空白は取り除かれ、終端行の後ろには何も残りません。
func EnsureTerminalMarker(text string) string {
	trimmed := strings.TrimRightFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasSuffix(trimmed, TerminalMarker) {
		return trimmed
	}
	if trimmed == "" {
		return TerminalMarker
	}
	return trimmed + "\n\n" + TerminalMarker
}

// Metadata は生成結果の付帯情報です。
type Metadata struct {
	RunID         string    `json:"run_id,omitempty"`
	Model         string    `json:"model"`
	Traits        []string  `json:"traits"`
	AgeDescriptor string    `json:"age_descriptor"`
	Timestamp     time.Time `json:"timestamp"`
	Fallbacks     []string  `json:"fallbacks,omitempty"`
}

// GenerationResult はパイプラインが呼び出し元に返す唯一の結果です。
type GenerationResult struct {
	StoryText        string           `json:"story_text"`
	Images           []string         `json:"images"`
	Scenes           []Scene          `json:"scenes,omitempty"`
	CharacterProfile CharacterProfile `json:"character_profile"`
	CulturalProfile  CulturalProfile  `json:"cultural_profile"`
	StoryPlan        StoryPlan        `json:"story_plan"`
	Metadata         Metadata         `json:"metadata"`
}

// Title はプランのタイトルを返します。無ければ本文の先頭行を 200 文字までに切り詰めて使います。
func (r *GenerationResult) Title() string {
	if t := strings.TrimSpace(r.StoryPlan.Title); t != "" {
		return t
	}
	first, _, _ := strings.Cut(strings.TrimSpace(r.StoryText), "\n")
	first = strings.Trim(strings.TrimSpace(first), "#* ")
	if runes := []rune(first); len(runes) > 200 {
		first = string(runes[:200])
	}
	if first == "" {
		return "Untitled Story"
	}
	return first
}

// PaddedImages は画像リストを n 件に揃えます。足りない分は placeholder で埋めます。
func (r *GenerationResult) PaddedImages(n int, placeholder string) []string {
	out := slices.Clone(r.Images)
	if len(out) > n {
		return out[:n]
	}
	for len(out) < n {
		out = append(out, placeholder)
	}
	return out
}
