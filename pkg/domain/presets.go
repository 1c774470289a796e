package domain

// LengthPreset は物語の長さ指定ごとの目安トークン数です。
type LengthPreset struct {
	MinTokens int
	MaxTokens int
}

// ReadingLevelPreset は読者レベルごとの語彙と文の長さの目安です。
type ReadingLevelPreset struct {
	VocabLevel        string
	MaxSentenceLength int
}

// StoryLengthPresets は選択可能な物語の長さです。
var StoryLengthPresets = map[string]LengthPreset{
	"short":  {MinTokens: 120, MaxTokens: 180},
	"medium": {MinTokens: 200, MaxTokens: 280},
	"long":   {MinTokens: 320, MaxTokens: 420},
}

// ReadingLevelPresets は選択可能な読者レベルです。
var ReadingLevelPresets = map[string]ReadingLevelPreset{
	"early":      {VocabLevel: "simple", MaxSentenceLength: 10},
	"developing": {VocabLevel: "moderate", MaxSentenceLength: 14},
	"confident":  {VocabLevel: "rich", MaxSentenceLength: 18},
}

// LengthFor は長さ指定に対応するプリセットを返します。未知の指定なら false です。
func LengthFor(name string) (LengthPreset, bool) {
	p, ok := StoryLengthPresets[name]
	return p, ok
}

// ReadingLevelFor は読者レベルに対応するプリセットを返します。
func ReadingLevelFor(name string) (ReadingLevelPreset, bool) {
	p, ok := ReadingLevelPresets[name]
	return p, ok
}
