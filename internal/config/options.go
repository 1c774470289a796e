package config

import (
	"github.com/shouni/go-picturebook-kit/pkg/domain"
)

// GenerateOptions は CLI フラグから渡される実行時のパラメータなのだ。
type GenerateOptions struct {
	// 主人公
	Name          string   // --name
	Age           string   // --age
	CharacterType string   // --type
	Gender        string   // --gender
	Traits        []string // --traits

	// 物語の文脈
	Location     string // --location
	Theme        string // --theme
	StoryLength  string // --length
	ReadingLevel string // --reading-level

	// 文化的な文脈
	Background string // --background
	Region     string // --region
	Traditions string // --traditions

	// 入出力
	InputFile string // --input-file
	OutputDir string // --output-dir
	Backend   string // --backend
}

// Request はフラグの値からパイプラインのリクエストを組み立てます。
// 年齢と特性は正規化前の値のまま渡します。
func (o GenerateOptions) Request() domain.Request {
	var traits any
	if len(o.Traits) > 0 {
		list := make([]any, 0, len(o.Traits))
		for _, t := range o.Traits {
			list = append(list, t)
		}
		traits = list
	}
	var age any
	if o.Age != "" {
		age = o.Age
	}

	return domain.Request{
		Input: domain.RawInput{
			CharacterName: o.Name,
			Age:           age,
			CharacterType: o.CharacterType,
			Gender:        o.Gender,
			Traits:        traits,
			Location:      o.Location,
			Theme:         o.Theme,
			StoryLength:   o.StoryLength,
			ReadingLevel:  o.ReadingLevel,
		},
		Metadata: domain.UserMetadata{
			CulturalBackground: o.Background,
			Region:             o.Region,
		},
		Cluster: domain.ClusterContext{
			CulturalBackground: o.Background,
			SpecificTraditions: o.Traditions,
			Region:             o.Region,
			Location:           o.Location,
			Theme:              o.Theme,
		},
	}
}
