package domain

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultAgeDescriptor は年齢指定が解釈できないときに使う記述です。
	DefaultAgeDescriptor = "7-9"
	// DefaultCharacterName は名前が空のときに使う主人公名です。
	DefaultCharacterName = "Child"
	// DefaultCharacterType は種別が空のときの値です。
	DefaultCharacterType = "human"
	// DefaultGender は性別が空のときの値です。
	DefaultGender = "unspecified"
	// DefaultTheme はテーマが空のときの値です。
	DefaultTheme = "adventure"
)

// DefaultTraits は特性リストが空になったときに補う値です。
var DefaultTraits = []string{"curious", "kind"}

// RawInput は HTTP や CLI から渡される未正規化のリクエストです。
// Age と Traits は文字列・数値・リスト・範囲オブジェクトのいずれも受け付けます。
type RawInput struct {
	CharacterName string `json:"character_name"`
	Age           any    `json:"age_range"`
	CharacterType string `json:"character_type"`
	Gender        string `json:"character_gender"`
	Traits        any    `json:"traits"`
	Location      string `json:"location"`
	Theme         string `json:"theme"`
	StoryLength   string `json:"story_length,omitempty"`
	ReadingLevel  string `json:"reading_level,omitempty"`
}

// UserInput は正規化済みの入力です。Traits は常に1件以上あります。
type UserInput struct {
	CharacterName string   `json:"character_name"`
	AgeDescriptor string   `json:"age_descriptor"`
	CharacterType string   `json:"character_type"`
	Gender        string   `json:"character_gender"`
	Traits        []string `json:"traits"`
	Location      string   `json:"location"`
	Theme         string   `json:"theme"`
	StoryLength   string   `json:"story_length,omitempty"`
	ReadingLevel  string   `json:"reading_level,omitempty"`
}

// TraitsText は特性をカンマ区切りで返します。
func (u UserInput) TraitsText() string {
	return strings.Join(u.Traits, ", ")
}

// UserMetadata はユーザー由来の文化的な情報です。
type UserMetadata struct {
	CulturalBackground string `json:"cultural_background"`
	Region             string `json:"region"`
}

// ClusterContext はリクエスト層から渡される文脈ヒントです。
// 中身は解釈せずにプロファイルへそのまま引き継ぎます。
type ClusterContext struct {
	CulturalBackground string `json:"cultural_background,omitempty"`
	SpecificTraditions string `json:"specific_traditions,omitempty"`
	Region             string `json:"region,omitempty"`
	Location           string `json:"location,omitempty"`
	Theme              string `json:"theme,omitempty"`
}

// Request はパイプラインの入口で受け取る3つの独立したレコードです。
type Request struct {
	Input    RawInput       `json:"input"`
	Metadata UserMetadata   `json:"metadata"`
	Cluster  ClusterContext `json:"cluster_context"`
}

// Normalize は RawInput を UserInput に変換します。
func (r RawInput) Normalize() UserInput {
	return UserInput{
		CharacterName: cmp.Or(strings.TrimSpace(r.CharacterName), DefaultCharacterName),
		AgeDescriptor: NormalizeAge(r.Age),
		CharacterType: cmp.Or(strings.TrimSpace(r.CharacterType), DefaultCharacterType),
		Gender:        cmp.Or(strings.TrimSpace(r.Gender), DefaultGender),
		Traits:        NormalizeTraits(r.Traits),
		Location:      strings.TrimSpace(r.Location),
		Theme:         cmp.Or(strings.TrimSpace(r.Theme), DefaultTheme),
		StoryLength:   strings.TrimSpace(r.StoryLength),
		ReadingLevel:  strings.TrimSpace(r.ReadingLevel),
	}
}

// NormalizeTraits は文字列またはリストを重複のない特性リストに変換します。
// 結果が空なら DefaultTraits を返すのだ。
func NormalizeTraits(v any) []string {
	var candidates []string
	switch t := v.(type) {
	case string:
		candidates = strings.Split(t, ",")
	case []string:
		candidates = t
	case []any:
		for _, item := range t {
			if s, ok := item.(string); ok {
				candidates = append(candidates, s)
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	traits := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		traits = append(traits, c)
	}

	if len(traits) == 0 {
		return append([]string(nil), DefaultTraits...)
	}
	return traits
}

// AgeRange は min/max 形式の年齢指定です。
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// NormalizeAge は年齢指定をプロンプト用のテキストに変換します。
// 戻り値は表示専用で、数値として再解釈してはいけません。
func NormalizeAge(v any) string {
	switch a := v.(type) {
	case string:
		if s := strings.TrimSpace(a); s != "" {
			return s
		}
	case int:
		return fmt.Sprintf("%d years old", a)
	case int32:
		return fmt.Sprintf("%d years old", a)
	case int64:
		return fmt.Sprintf("%d years old", a)
	case float32:
		return formatYears(float64(a))
	case float64:
		return formatYears(a)
	case AgeRange:
		return rangeDescriptor(ageText(a.Min), ageText(a.Max))
	case *AgeRange:
		if a != nil {
			return rangeDescriptor(ageText(a.Min), ageText(a.Max))
		}
	case map[string]any:
		return rangeDescriptor(ageText(a["min"]), ageText(a["max"]))
	}
	return DefaultAgeDescriptor
}

func formatYears(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return DefaultAgeDescriptor
	}
	return fmt.Sprintf("%d years old", int(f))
}

func rangeDescriptor(lo, hi string) string {
	switch {
	case lo != "" && hi != "":
		return lo + "-" + hi
	case lo != "":
		return lo + "+"
	default:
		return DefaultAgeDescriptor
	}
}

// ageText は範囲の端点を文字列化します。ゼロ値と空文字は未指定として扱います。
func ageText(v any) string {
	switch n := v.(type) {
	case int:
		if n != 0 {
			return strconv.Itoa(n)
		}
	case float64:
		if n != 0 && !math.IsNaN(n) && !math.IsInf(n, 0) {
			return strconv.FormatFloat(n, 'f', -1, 64)
		}
	case string:
		return strings.TrimSpace(n)
	}
	return ""
}
