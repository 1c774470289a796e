package domain

import (
	"errors"
	"testing"
)

func TestStoryPlan_Validate(t *testing.T) {
	tests := []struct {
		name    string
		beats   []string
		wantErr bool
	}{
		{"3ビートは有効", []string{"a", "b", "c"}, false},
		{"2ビートは無効", []string{"a", "b"}, true},
		{"4ビートは無効", []string{"a", "b", "c", "d"}, true},
		{"nil は無効", nil, true},
		{"空のビートは無効", []string{"a", " ", "c"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := StoryPlan{Title: "t", PlotBeats: tt.beats}.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("ErrInvalidPlan でラップされていません: %v", err)
			}
		})
	}
}

func TestFallbackStoryPlan(t *testing.T) {
	plan := FallbackStoryPlan(testInput())

	if err := plan.Validate(); err != nil {
		t.Fatalf("代替プランが不正です: %v", err)
	}
	if plan.Title != "Maya's Adventure Adventure" {
		t.Errorf("Title = %q", plan.Title)
	}
	if want := "Beginning: Maya shows their brave, kind nature in Tokyo."; plan.PlotBeats[0] != want {
		t.Errorf("PlotBeats[0] = %q, want %q", plan.PlotBeats[0], want)
	}
	if want := "Being brave, kind helps us overcome challenges."; plan.Moral != want {
		t.Errorf("Moral = %q, want %q", plan.Moral, want)
	}

	t.Run("場所が空なら既定の場所を使うこと", func(t *testing.T) {
		in := testInput()
		in.Location = ""
		in.Theme = "friendship"
		p := FallbackStoryPlan(in)
		if want := "Beginning: Maya shows their brave, kind nature in a familiar place."; p.PlotBeats[0] != want {
			t.Errorf("PlotBeats[0] = %q", p.PlotBeats[0])
		}
		if p.Title != "Maya's Friendship Adventure" {
			t.Errorf("Title = %q", p.Title)
		}
	})
}
