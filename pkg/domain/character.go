package domain

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"slices"
)

// DefaultArtStyle はキャラクターの画風です。
const DefaultArtStyle = "soft watercolor children's book illustration"

// VisualIdentity は全画像で固定されるキャラクターの外見です。
type VisualIdentity struct {
	SkinTone            string `json:"skin_tone"`
	HairDescription     string `json:"hair_description"`
	Hairstyle           string `json:"hairstyle"`
	EyeDescription      string `json:"eye_description"`
	FacialFeatures      string `json:"facial_features"`
	BodyProportions     string `json:"body_proportions"`
	ClothingDescription string `json:"clothing_description"`
	ClothingColors      string `json:"clothing_colors"`
}

// MissingFields は空のフィールド名を返します。
func (v VisualIdentity) MissingFields() []string {
	fields := []struct {
		name  string
		value string
	}{
		{"skin_tone", v.SkinTone},
		{"hair_description", v.HairDescription},
		{"hairstyle", v.Hairstyle},
		{"eye_description", v.EyeDescription},
		{"facial_features", v.FacialFeatures},
		{"body_proportions", v.BodyProportions},
		{"clothing_description", v.ClothingDescription},
		{"clothing_colors", v.ClothingColors},
	}
	var missing []string
	for _, f := range fields {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

// CharacterProfile はリクエスト内で固定されるキャラクター定義です。
// LockedCanonicalDescription は全ての挿絵プロンプトにそのまま埋め込まれます。
type CharacterProfile struct {
	Name                       string         `json:"name"`
	AgeDescription             string         `json:"age_description"`
	CharacterType              string         `json:"character_type"`
	Gender                     string         `json:"character_gender"`
	VisualIdentity             VisualIdentity `json:"visual_identity"`
	PersonalityTraits          []string       `json:"personality_traits"`
	ArtStyle                   string         `json:"art_style"`
	LockedCanonicalDescription string         `json:"locked_canonical_description"`
	Seed                       int32          `json:"seed"`
}

func (c CharacterProfile) clone() CharacterProfile {
	out := c
	out.PersonalityTraits = slices.Clone(c.PersonalityTraits)
	return out
}

// NewCharacterProfile は外見から正準記述とシードを導出してプロファイルを生成します。
func NewCharacterProfile(in UserInput, vi VisualIdentity, traits []string, artStyle string) CharacterProfile {
	if len(traits) == 0 {
		traits = slices.Clone(in.Traits)
	}
	if artStyle == "" {
		artStyle = DefaultArtStyle
	}
	return CharacterProfile{
		Name:                       in.CharacterName,
		AgeDescription:             fmt.Sprintf("a %s year old child", in.AgeDescriptor),
		CharacterType:              in.CharacterType,
		Gender:                     in.Gender,
		VisualIdentity:             vi,
		PersonalityTraits:          slices.Clone(traits),
		ArtStyle:                   artStyle,
		LockedCanonicalDescription: BuildCanonicalDescription(in.CharacterName, in.AgeDescriptor, in.CharacterType, vi),
		Seed:                       GetSeedFromName(in.CharacterName),
	}
}

// FallbackCharacterProfile は生成に失敗したときの固定の外見を使うプロファイルです。
func FallbackCharacterProfile(in UserInput) CharacterProfile {
	age := in.AgeDescriptor
	vi := VisualIdentity{
		SkinTone:            "medium warm skin",
		HairDescription:     "dark brown hair",
		Hairstyle:           "neat hairstyle",
		EyeDescription:      "brown eyes",
		FacialFeatures:      fmt.Sprintf("friendly %s year old face", age),
		BodyProportions:     fmt.Sprintf("%s year old child proportions", age),
		ClothingDescription: "colorful comfortable clothes",
		ClothingColors:      "blue and white",
	}
	traits := in.Traits
	if len(traits) == 0 {
		traits = []string{"friendly", "curious"}
	}
	return NewCharacterProfile(in, vi, traits, DefaultArtStyle)
}

// BuildCanonicalDescription は外見の8項目と名前・年齢・種別を決定的に連結します。
func BuildCanonicalDescription(name, age, characterType string, vi VisualIdentity) string {
	return fmt.Sprintf(
		"%s, a %s year old %s. SKIN: %s. HAIR: %s in %s. EYES: %s. FACE: %s. BODY: %s. CLOTHING: %s in %s. This exact appearance must be identical in every image.",
		name, age, characterType,
		vi.SkinTone,
		vi.HairDescription, vi.Hairstyle,
		vi.EyeDescription,
		vi.FacialFeatures,
		vi.BodyProportions,
		vi.ClothingDescription, vi.ClothingColors,
	)
}

// MidpointAge は年齢帯の中央値を返します。プロンプトの補足にだけ使うのだ。
func MidpointAge(descriptor string) int {
	switch descriptor {
	case "0-3":
		return 2
	case "4-6":
		return 5
	case "7-9":
		return 8
	case "10-12":
		return 11
	default:
		return 5
	}
}

// GetSeedFromName は名前から決定論的なシード値を生成します。
func GetSeedFromName(name string) int32 {
	hash := sha256.Sum256([]byte(name))
	// ハッシュの最初の4バイトを int32 に変換
	seed := int32(binary.BigEndian.Uint32(hash[:4]))
	// シード値は正の数が望ましいため、最上位ビットを落とすのだ
	return seed & 0x7FFFFFFF
}
