package domain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PlotBeatCount は物語プランのビート数です。
const PlotBeatCount = 3

// ErrInvalidPlan はプランの形が不正なときに返されます。
var ErrInvalidPlan = errors.New("invalid story plan")

// StoryPlan は始まり・中盤・結末の3ビートからなる物語の骨組みです。
type StoryPlan struct {
	Title     string   `json:"title"`
	PlotBeats []string `json:"plot_beats"`
	Moral     string   `json:"moral"`
}

// Validate はビートがちょうど3つあり、いずれも空でないことを確認します。
func (p StoryPlan) Validate() error {
	if len(p.PlotBeats) != PlotBeatCount {
		return fmt.Errorf("%w: expected %d plot beats, got %d", ErrInvalidPlan, PlotBeatCount, len(p.PlotBeats))
	}
	for i, beat := range p.PlotBeats {
		if strings.TrimSpace(beat) == "" {
			return fmt.Errorf("%w: plot beat %d is empty", ErrInvalidPlan, i+1)
		}
	}
	return nil
}

// FallbackStoryPlan は入力から決定的に組み立てる代替プランです。
func FallbackStoryPlan(in UserInput) StoryPlan {
	name := in.CharacterName
	traits := in.TraitsText()
	location := in.Location
	if location == "" {
		location = "a familiar place"
	}

	return StoryPlan{
		Title: fmt.Sprintf("%s's %s Adventure", name, capitalize(in.Theme)),
		PlotBeats: []string{
			fmt.Sprintf("Beginning: %s shows their %s nature in %s.", name, traits, location),
			fmt.Sprintf("Middle: A challenge helps %s use their %s traits.", name, traits),
			fmt.Sprintf("End: %s succeeds by being %s.", name, traits),
		},
		Moral: fmt.Sprintf("Being %s helps us overcome challenges.", traits),
	}
}

// capitalize は先頭を大文字、残りを小文字にします。
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
