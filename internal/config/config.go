package config

import (
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/shouni/go-picturebook-kit/pkg/ai"
	pbconfig "github.com/shouni/go-picturebook-kit/pkg/config"

	"github.com/joho/godotenv"
	"github.com/shouni/go-utils/envutil"
)

// デフォルト値の定義なのだ
const (
	BackendGemini = "gemini"
	BackendOpenAI = "openai"

	DefaultBackend        = BackendGemini
	DefaultOutputDir      = "output"
	DefaultServerAddr     = ":8080"
	DefaultRequestTimeout = pbconfig.DefaultRequestTimeout
	DefaultMemoryTTL      = 24 * time.Hour
)

// Config はアプリケーション全体の環境設定（APIキーや出力先）を保持する構造体なのだ。
type Config struct {
	Backend      string
	GeminiAPIKey string
	OpenAIAPIKey string
	TextModel    string
	ImageModel   string
	ImageSize    string

	OutputDir    string
	DatabasePath string
	ServerAddr   string

	MaxScenes      int
	BriefMaxWords  int
	RateInterval   time.Duration
	RequestTimeout time.Duration
	OtelEnabled    bool

	Options GenerateOptions
}

// LoadConfig は .env と環境変数から設定を読み込み、構造体を返すのだ！
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env が読み込めなかったので環境変数だけを使うのだ", "error", err)
	}

	backend := strings.ToLower(envutil.GetEnv("STORY_BACKEND", DefaultBackend))
	cfg := &Config{
		Backend:        backend,
		GeminiAPIKey:   envutil.GetEnv("GEMINI_API_KEY", ""),
		OpenAIAPIKey:   envutil.GetEnv("OPENAI_API_KEY", ""),
		TextModel:      envutil.GetEnv("TEXT_MODEL", defaultTextModel(backend)),
		ImageModel:     envutil.GetEnv("IMAGE_MODEL", defaultImageModel(backend)),
		ImageSize:      envutil.GetEnv("IMAGE_SIZE", defaultImageSize(backend)),
		OutputDir:      envutil.GetEnv("OUTPUT_DIR", DefaultOutputDir),
		DatabasePath:   envutil.GetEnv("DATABASE_PATH", ""),
		ServerAddr:     envutil.GetEnv("SERVER_ADDR", DefaultServerAddr),
		MaxScenes:      envInt("MAX_SCENES", pbconfig.DefaultMaxScenes),
		BriefMaxWords:  envInt("BRIEF_MAX_WORDS", pbconfig.DefaultBriefMaxWords),
		RateInterval:   envDuration("RATE_INTERVAL", pbconfig.DefaultRateInterval),
		RequestTimeout: envDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
		OtelEnabled:    envBool("OTEL_ENABLED", false),
	}
	return cfg
}

// Pipeline はパイプラインの設定に変換します。
func (c *Config) Pipeline() pbconfig.Config {
	cfg := pbconfig.DefaultConfig()
	cfg.MaxScenes = c.MaxScenes
	cfg.BriefMaxWords = c.BriefMaxWords
	cfg.ImageSize = c.ImageSize
	cfg.RateInterval = c.RateInterval
	return cfg.Normalize()
}

// APIKey は選択中のバックエンドの API キーを返します。
func (c *Config) APIKey() string {
	if c.Backend == BackendOpenAI {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

func defaultTextModel(backend string) string {
	if backend == BackendOpenAI {
		return pbconfig.DefaultOpenAIModel
	}
	return pbconfig.DefaultGeminiModel
}

func defaultImageModel(backend string) string {
	if backend == BackendOpenAI {
		return pbconfig.DefaultOpenAIImageModel
	}
	return pbconfig.DefaultGeminiImageModel
}

// defaultImageSize はバックエンドの既定の画像サイズを返します。
func defaultImageSize(backend string) string {
	if backend == BackendOpenAI {
		return ai.DefaultOpenAIImageSize
	}
	return pbconfig.DefaultImageSize
}

func envInt(key string, def int) int {
	v, err := strconv.Atoi(envutil.GetEnv(key, strconv.Itoa(def)))
	if err != nil {
		slog.Warn("数値として解釈できない環境変数なのでデフォルト値を使うのだ", "key", key, "error", err)
		return def
	}
	return v
}

func envDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(envutil.GetEnv(key, def.String()))
	if err != nil {
		slog.Warn("期間として解釈できない環境変数なのでデフォルト値を使うのだ", "key", key, "error", err)
		return def
	}
	return d
}

func envBool(key string, def bool) bool {
	b, err := strconv.ParseBool(envutil.GetEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

// WithBackend はバックエンドを切り替え、明示されていないモデル設定をそのバックエンドの既定値に戻します。
func (c *Config) WithBackend(backend string) {
	backend = strings.ToLower(strings.TrimSpace(backend))
	if backend == "" || backend == c.Backend {
		return
	}
	c.Backend = backend
	c.TextModel = envutil.GetEnv("TEXT_MODEL", defaultTextModel(backend))
	c.ImageModel = envutil.GetEnv("IMAGE_MODEL", defaultImageModel(backend))
	c.ImageSize = envutil.GetEnv("IMAGE_SIZE", defaultImageSize(backend))
}
