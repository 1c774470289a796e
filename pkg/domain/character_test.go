package domain

import (
	"strings"
	"testing"
)

func TestBuildCanonicalDescription(t *testing.T) {
	vi := VisualIdentity{
		SkinTone:            "light olive skin",
		HairDescription:     "black straight hair",
		Hairstyle:           "twin braids",
		EyeDescription:      "dark brown eyes",
		FacialFeatures:      "round face",
		BodyProportions:     "small child proportions",
		ClothingDescription: "yellow raincoat",
		ClothingColors:      "yellow and green",
	}

	got := BuildCanonicalDescription("Maya", "7-9", "human", vi)
	want := "Maya, a 7-9 year old human. SKIN: light olive skin. HAIR: black straight hair in twin braids. " +
		"EYES: dark brown eyes. FACE: round face. BODY: small child proportions. " +
		"CLOTHING: yellow raincoat in yellow and green. This exact appearance must be identical in every image."
	if got != want {
		t.Errorf("BuildCanonicalDescription()\n got: %q\nwant: %q", got, want)
	}

	if again := BuildCanonicalDescription("Maya", "7-9", "human", vi); again != got {
		t.Error("同じ入力から異なる記述が生成されました")
	}
}

func TestFallbackCharacterProfile(t *testing.T) {
	p := FallbackCharacterProfile(testInput())

	if !strings.Contains(p.LockedCanonicalDescription, "Maya") {
		t.Errorf("正準記述に名前が含まれていません: %q", p.LockedCanonicalDescription)
	}
	if missing := p.VisualIdentity.MissingFields(); len(missing) != 0 {
		t.Errorf("外見に空の項目があります: %v", missing)
	}
	if p.VisualIdentity.FacialFeatures != "friendly 7-9 year old face" {
		t.Errorf("FacialFeatures = %q", p.VisualIdentity.FacialFeatures)
	}
	if p.ArtStyle != DefaultArtStyle {
		t.Errorf("ArtStyle = %q", p.ArtStyle)
	}
	if p.AgeDescription != "a 7-9 year old child" {
		t.Errorf("AgeDescription = %q", p.AgeDescription)
	}
	if p.Seed != GetSeedFromName("Maya") {
		t.Errorf("Seed = %d", p.Seed)
	}
}

func TestVisualIdentity_MissingFields(t *testing.T) {
	missing := VisualIdentity{SkinTone: "x"}.MissingFields()
	if len(missing) != 7 {
		t.Errorf("MissingFields() = %v, want 7 fields", missing)
	}
}

func TestMidpointAge(t *testing.T) {
	cases := map[string]int{"0-3": 2, "4-6": 5, "7-9": 8, "10-12": 11, "8 years old": 5}
	for in, want := range cases {
		if got := MidpointAge(in); got != want {
			t.Errorf("MidpointAge(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestGetSeedFromName(t *testing.T) {
	t.Run("決定論的にSeedが生成されること", func(t *testing.T) {
		seed1 := GetSeedFromName("Maya")
		seed2 := GetSeedFromName("Maya")
		if seed1 != seed2 {
			t.Error("同じ名前から異なるSeedが生成されました。決定論的ではありません")
		}
	})

	t.Run("Seedが負にならないこと", func(t *testing.T) {
		for _, name := range []string{"Maya", "Kofi", "Aiko", "", "长"} {
			if seed := GetSeedFromName(name); seed < 0 {
				t.Errorf("GetSeedFromName(%q) = %d", name, seed)
			}
		}
	})
}
