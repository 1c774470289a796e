package generator

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-picturebook-kit/pkg/domain"
	"github.com/shouni/go-picturebook-kit/pkg/parser"
	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// characterResponse はキャラクター設計の応答の形です。
type characterResponse struct {
	Name              string                `json:"name"`
	AgeDescription    string                `json:"age_description"`
	VisualIdentity    domain.VisualIdentity `json:"visual_identity"`
	PersonalityTraits []string              `json:"personality_traits"`
	ArtStyle          string                `json:"art_style"`
}

// DesignCharacter は固定の外見を持つキャラクタープロファイルを生成します。
// 正準記述は応答の文言ではなく外見の8項目から組み立てます。
func (sc *StoryComposer) DesignCharacter(ctx context.Context, in domain.UserInput, profile domain.CulturalProfile) (domain.CharacterProfile, bool) {
	character, err := sc.designCharacter(ctx, in, profile)
	if err != nil {
		logFallback(ctx, "character_profile", err)
		return domain.FallbackCharacterProfile(in), true
	}

	slog.InfoContext(ctx, "Character locked",
		"name", character.Name,
		"hairstyle", character.VisualIdentity.Hairstyle,
		"clothing", character.VisualIdentity.ClothingDescription)
	return character, false
}

func (sc *StoryComposer) designCharacter(ctx context.Context, in domain.UserInput, profile domain.CulturalProfile) (domain.CharacterProfile, error) {
	prompt, err := sc.Prompts.Build(prompts.ModeCharacter, prompts.CharacterData{
		Input:       in,
		MidpointAge: domain.MidpointAge(in.AgeDescriptor),
		Background:  cmp.Or(profile.UserContext.Background, "diverse"),
		Location:    cmp.Or(profile.StoryContext.Location, "varied"),
		Theme:       cmp.Or(profile.StoryContext.Theme, domain.DefaultTheme),
	})
	if err != nil {
		return domain.CharacterProfile{}, err
	}

	raw, err := sc.Text.GenerateText(ctx, prompt, jsonOptions(sc.Config.Stages.Character, characterResponse{}, "character_profile"))
	if err != nil {
		return domain.CharacterProfile{}, fmt.Errorf("キャラクター設計の生成に失敗しました: %w", err)
	}

	resp, err := parser.Decode[characterResponse](raw)
	if err != nil {
		return domain.CharacterProfile{}, err
	}
	if missing := resp.VisualIdentity.MissingFields(); len(missing) > 0 {
		return domain.CharacterProfile{}, errMissingFields("visual_identity", missing)
	}

	return domain.NewCharacterProfile(in, resp.VisualIdentity, resp.PersonalityTraits, resp.ArtStyle), nil
}

// errMissingFields は必須フィールドの欠落を MalformedResponse として表します。
func errMissingFields(what string, fields []string) error {
	return errors.Join(parser.ErrMalformedResponse, fmt.Errorf("%s is missing fields %v", what, fields))
}
