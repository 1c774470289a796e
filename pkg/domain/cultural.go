package domain

import (
	"cmp"
	"slices"
)

// CulturalAnalysis は文化的な分析結果の4つのリストです。
type CulturalAnalysis struct {
	CulturalThemes   []string `json:"cultural_themes"`
	AuthenticDetails []string `json:"authentic_details"`
	TraitExpression  []string `json:"trait_expression"`
	AgeAppropriate   []string `json:"age_appropriate"`
}

// DefaultCulturalAnalysis は生成に失敗したときに使う固定の分析結果を返します。
func DefaultCulturalAnalysis() CulturalAnalysis {
	return CulturalAnalysis{
		CulturalThemes:   []string{"friendship", "community"},
		AuthenticDetails: []string{"family interactions", "daily routines"},
		TraitExpression:  []string{"show traits through choices and dialogue"},
		AgeAppropriate:   []string{"simple language", "positive messages"},
	}
}

// IsEmpty は4つのリストがすべて空かどうかを返します。
func (a CulturalAnalysis) IsEmpty() bool {
	return len(a.CulturalThemes) == 0 && len(a.AuthenticDetails) == 0 &&
		len(a.TraitExpression) == 0 && len(a.AgeAppropriate) == 0
}

// InclusivePrinciples は全ステージで共有する固定の原則です。
var InclusivePrinciples = []string{
	"Show authentic cultural elements",
	"Focus on individual experiences",
	"Include positive representation",
	"Show cultural exchange and sharing",
	"Ensure personality traits are reflected through actions",
}

// StorytellingGuidelines はプロファイルに含める4つのガイドラインです。
var StorytellingGuidelines = []string{
	"Create authentic characters",
	"Include cultural elements naturally",
	"Focus on positive representation",
	"Make it age-appropriate",
}

// UserContext はユーザーの背景情報です。
type UserContext struct {
	Background string `json:"background"`
	Region     string `json:"region"`
}

// StoryContext は物語の固定属性です。後続ステージはこれを変更しません。
type StoryContext struct {
	Location      string   `json:"location"`
	Theme         string   `json:"theme"`
	CharacterName string   `json:"character_name"`
	AgeDescriptor string   `json:"age_descriptor"`
	Gender        string   `json:"character_gender"`
	Traits        []string `json:"traits"`
}

// CulturalInputs はクラスタ文脈から取り出した文化的入力です。
type CulturalInputs struct {
	Background string `json:"background"`
	Traditions string `json:"traditions"`
	Region     string `json:"region"`
}

// CulturalProfile は全ステージに渡される文化的なガイダンスです。
// 構築後は変更されず、キャラクターは WithCharacter で付与したコピーとして扱います。
type CulturalProfile struct {
	UserContext  UserContext       `json:"user_context"`
	StoryContext StoryContext      `json:"story_context"`
	Inputs       CulturalInputs    `json:"cultural_inputs"`
	Cluster      ClusterContext    `json:"cluster_context"`
	Analysis     CulturalAnalysis  `json:"cultural_analysis"`
	Principles   []string          `json:"principles"`
	Guidelines   []string          `json:"storytelling_guidelines"`
	Character    *CharacterProfile `json:"character_profile,omitempty"`
}

// WithCharacter はキャラクタープロファイルを付与した新しいプロファイルを返します。
// 受け取り側のプロファイルは変更しません。
func (p CulturalProfile) WithCharacter(c CharacterProfile) CulturalProfile {
	out := p.clone()
	cc := c.clone()
	out.Character = &cc
	return out
}

func (p CulturalProfile) clone() CulturalProfile {
	out := p
	out.StoryContext.Traits = slices.Clone(p.StoryContext.Traits)
	out.Analysis = CulturalAnalysis{
		CulturalThemes:   slices.Clone(p.Analysis.CulturalThemes),
		AuthenticDetails: slices.Clone(p.Analysis.AuthenticDetails),
		TraitExpression:  slices.Clone(p.Analysis.TraitExpression),
		AgeAppropriate:   slices.Clone(p.Analysis.AgeAppropriate),
	}
	out.Principles = slices.Clone(p.Principles)
	out.Guidelines = slices.Clone(p.Guidelines)
	if p.Character != nil {
		cc := p.Character.clone()
		out.Character = &cc
	}
	return out
}

// BuildCulturalProfile はメタデータとクラスタ文脈と入力からプロファイルを組み立てます。
// 失敗することはなく、欠けた値は空文字、テーマは "adventure" になります。
func BuildCulturalProfile(in UserInput, meta UserMetadata, cluster ClusterContext, analysis CulturalAnalysis) CulturalProfile {
	background := cmp.Or(meta.CulturalBackground, cluster.CulturalBackground)
	region := cmp.Or(meta.Region, cluster.Region)

	p := CulturalProfile{
		UserContext: UserContext{
			Background: background,
			Region:     region,
		},
		StoryContext: StoryContext{
			Location:      cmp.Or(in.Location, cluster.Location),
			Theme:         cmp.Or(in.Theme, cluster.Theme, DefaultTheme),
			CharacterName: cmp.Or(in.CharacterName, DefaultCharacterName),
			AgeDescriptor: cmp.Or(in.AgeDescriptor, DefaultAgeDescriptor),
			Gender:        cmp.Or(in.Gender, DefaultGender),
			Traits:        slices.Clone(in.Traits),
		},
		Inputs: CulturalInputs{
			Background: cmp.Or(cluster.CulturalBackground, meta.CulturalBackground),
			Traditions: cluster.SpecificTraditions,
			Region:     cmp.Or(cluster.Region, meta.Region),
		},
		Cluster:    cluster,
		Analysis:   analysis,
		Principles: slices.Clone(InclusivePrinciples),
		Guidelines: slices.Clone(StorytellingGuidelines),
	}
	return p.clone()
}
