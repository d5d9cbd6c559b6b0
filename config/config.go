package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DatabaseURL string
	DBPath      string
	LogLevel    string
	Scheduler   SchedulerConfig
	HuggingFace HuggingFaceConfig
	OpenAI      OpenAIConfig
	Pipeline    PipelineConfig
}

type SchedulerConfig struct {
	Interval time.Duration
	Cron     string
}

type HuggingFaceConfig struct {
	APIKey string
	Model  string
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// PipelineConfig carries tunables loaded from config/pipeline.yaml. Every
// field has a default so the file is optional.
type PipelineConfig struct {
	Model                 string  `yaml:"model"`
	MaxContextTokens      int     `yaml:"max_context_tokens"`
	ResponseReserveTokens int     `yaml:"response_reserve_tokens"`
	Retries               int     `yaml:"retries"`
	RetryDelayMS          int     `yaml:"retry_delay_ms"`
	SpotPriceOverride     float64 `yaml:"spot_price_override"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBPath:      getEnv("DB_PATH", "golddigger.db"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Scheduler: SchedulerConfig{
			Cron: os.Getenv("ENRICH_CRON"),
		},
		HuggingFace: HuggingFaceConfig{
			APIKey: os.Getenv("HF_API_KEY"),
			Model:  getEnv("HF_MODEL", "facebook/bart-large-mnli"),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
		},
		Pipeline: PipelineConfig{
			Model:                 "gpt-3.5-turbo",
			MaxContextTokens:      4096,
			ResponseReserveTokens: 500,
			Retries:               getEnvInt("HTTP_RETRIES", 3),
			RetryDelayMS:          2000,
		},
	}

	if interval := os.Getenv("ENRICH_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)
		if err == nil {
			cfg.Scheduler.Interval = d
		}
	}

	if err := cfg.loadPipelineConfig(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadPipelineConfig() error {
	data, err := os.ReadFile("config/pipeline.yaml")
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, &c.Pipeline)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
