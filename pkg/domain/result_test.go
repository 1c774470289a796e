package domain

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEnsureTerminalMarker(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"終端行が無ければ追加すること", "Once upon a time.", "Once upon a time.\n\nThe End."},
		{"既にあればそのままにすること", "Story.\n\nThe End.", "Story.\n\nThe End."},
		{"末尾の空白を取り除くこと", "Story.\n\nThe End.\n  \n", "Story.\n\nThe End."},
		{"終端行の後ろに文があれば追加すること", "The End. Or is it?", "The End. Or is it?\n\nThe End."},
		{"空文字なら終端行だけにすること", "", "The End."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureTerminalMarker(tt.in)
			if got != tt.want {
				t.Errorf("EnsureTerminalMarker(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !strings.HasSuffix(got, TerminalMarker) {
				t.Errorf("終端行で終わっていません: %q", got)
			}
		})
	}
}

func TestPhaseForIndex(t *testing.T) {
	want := []Phase{PhaseBeginning, PhaseMiddle, PhaseEnd, ""}
	for i, w := range want {
		if got := PhaseForIndex(i); got != w {
			t.Errorf("PhaseForIndex(%d) = %q, want %q", i, got, w)
		}
	}
}

func TestGenerationResult_PaddedImages(t *testing.T) {
	r := &GenerationResult{Images: []string{"a.webp"}}

	got := r.PaddedImages(3, "/static/fallback_image.png")
	want := []string{"a.webp", "/static/fallback_image.png", "/static/fallback_image.png"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PaddedImages() mismatch (-want +got):\n%s", diff)
	}
	if len(r.Images) != 1 {
		t.Error("元の画像リストが変更されました")
	}

	r.Images = []string{"1", "2", "3", "4"}
	if got := r.PaddedImages(3, "x"); len(got) != 3 {
		t.Errorf("切り詰め後の件数 = %d, want 3", len(got))
	}
}

func TestGenerationResult_Title(t *testing.T) {
	r := &GenerationResult{StoryPlan: StoryPlan{Title: "Maya's Day"}}
	if r.Title() != "Maya's Day" {
		t.Errorf("Title() = %q", r.Title())
	}

	r = &GenerationResult{StoryText: "# The Lantern\n\nOnce upon a time."}
	if r.Title() != "The Lantern" {
		t.Errorf("Title() = %q", r.Title())
	}

	r = &GenerationResult{}
	if r.Title() != "Untitled Story" {
		t.Errorf("Title() = %q", r.Title())
	}
}

func TestPageRole_IsKnown(t *testing.T) {
	if !PageRoleClimax.IsKnown() {
		t.Error("climax は既知の役割です")
	}
	if PageRole("interlude").IsKnown() {
		t.Error("interlude は既知の役割ではありません")
	}
}
