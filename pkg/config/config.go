package config

import (
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/prompts"
)

// デフォルト値の定義
const (
	DefaultGeminiModel      = "gemini-2.5-flash"
	DefaultGeminiImageModel = "gemini-2.5-flash-image"
	DefaultOpenAIModel      = "gpt-4.1"
	DefaultOpenAIImageModel = "dall-e-3"
	DefaultImageSize        = "1024x1024"
	DefaultFallbackImage    = "/static/fallback_image.png"
	DefaultMaxScenes        = 3
	DefaultImageCount       = 3
	DefaultBriefMaxWords    = 60
	DefaultRateInterval     = 2 * time.Second
	DefaultRateBurst        = 2
	DefaultRequestTimeout   = 5 * time.Minute
)

// StageParams は1ステージ分の生成パラメータです。
type StageParams struct {
	Temperature float32
	MaxTokens   int
}

// Stages は各ステージの生成パラメータです。
type Stages struct {
	CulturalAnalysis StageParams
	StoryPlan        StageParams
	Character        StageParams
	Story            StageParams
	Validation       StageParams
	ScenePlan        StageParams
	SceneSummary     StageParams
}

// Config は Go Picturebook Kit のパイプラインを動作させるための基本設定です。
type Config struct {
	// --- Illustration Settings ---
	MaxScenes     int
	BriefMaxWords int
	ImageSize     string
	StyleBlock    string
	FallbackImage string

	// --- Result Settings ---
	ImageCount int

	// --- Rate Limiting ---
	RateInterval time.Duration
	RateBurst    int

	Stages Stages
}

// DefaultStages は各ステージの推奨パラメータを返します。
// 決定性が重要なステージほど温度を低くしています。
func DefaultStages() Stages {
	return Stages{
		CulturalAnalysis: StageParams{Temperature: 0.3, MaxTokens: 800},
		StoryPlan:        StageParams{Temperature: 0.4, MaxTokens: 800},
		Character:        StageParams{Temperature: 0.3, MaxTokens: 1000},
		Story:            StageParams{Temperature: 0.7, MaxTokens: 1500},
		Validation:       StageParams{Temperature: 0.1, MaxTokens: 1500},
		ScenePlan:        StageParams{Temperature: 0.3, MaxTokens: 1200},
		SceneSummary:     StageParams{Temperature: 0.3, MaxTokens: 300},
	}
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		MaxScenes:     DefaultMaxScenes,
		BriefMaxWords: DefaultBriefMaxWords,
		ImageSize:     DefaultImageSize,
		StyleBlock:    prompts.BookStyle,
		FallbackImage: DefaultFallbackImage,
		ImageCount:    DefaultImageCount,
		RateInterval:  DefaultRateInterval,
		RateBurst:     DefaultRateBurst,
		Stages:        DefaultStages(),
	}
}

// Normalize はゼロ値の項目をデフォルト値で埋めた設定を返します。
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.MaxScenes <= 0 {
		c.MaxScenes = d.MaxScenes
	}
	if c.BriefMaxWords <= 0 {
		c.BriefMaxWords = d.BriefMaxWords
	}
	if c.ImageSize == "" {
		c.ImageSize = d.ImageSize
	}
	if c.StyleBlock == "" {
		c.StyleBlock = d.StyleBlock
	}
	if c.FallbackImage == "" {
		c.FallbackImage = d.FallbackImage
	}
	if c.ImageCount <= 0 {
		c.ImageCount = d.ImageCount
	}
	if c.RateInterval < 0 {
		c.RateInterval = d.RateInterval
	}
	if c.RateBurst <= 0 {
		c.RateBurst = d.RateBurst
	}
	if c.Stages == (Stages{}) {
		c.Stages = d.Stages
	}
	return c
}
