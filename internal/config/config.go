package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv      string `env:"APP_ENV" default:"development"`
	Port        string `env:"PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	RedisURL    string `env:"REDIS_URL"`
	LogLevel    string `env:"LOG_LEVEL" default:"info"`
	LogFormat   string `env:"LOG_FORMAT" default:"text"`

	// Translation and sentiment vendors (RapidAPI-hosted).
	TranslatorHost string `env:"TRANSLATOR_HOST" default:"deep-translate1.p.rapidapi.com"`
	ClassifierHost string `env:"CLASSIFIER_HOST" default:"sentiment-analysis9.p.rapidapi.com"`
	RapidAPIKey    string `env:"RAPIDAPI_KEY"`

	// PipelineTimeout bounds each external call (translate, classify).
	PipelineTimeout time.Duration `env:"PIPELINE_TIMEOUT" default:"5s"`

	// RejectOnClassifyFailure switches the pipeline fallback policy from
	// store-with-neutral to rejecting the whole submission with a 502.
	RejectOnClassifyFailure bool `env:"REJECT_ON_CLASSIFY_FAILURE" default:"false"`

	// Abuse guard tuning.
	BurstInterval    time.Duration `env:"MODERATION_BURST_INTERVAL" default:"20s"`
	LookbackWindow   time.Duration `env:"MODERATION_LOOKBACK_WINDOW" default:"20s"`
	MildCooldown     time.Duration `env:"MODERATION_MILD_COOLDOWN" default:"1m"`
	ModerateCooldown time.Duration `env:"MODERATION_MODERATE_COOLDOWN" default:"5m"`
	SevereCooldown   time.Duration `env:"MODERATION_SEVERE_COOLDOWN" default:"10m"`

	// Per-IP submission rate limiting.
	SubmissionsPerSecond float64 `env:"SUBMISSIONS_PER_SECOND" default:"5"`
	SubmissionBurst      int     `env:"SUBMISSION_BURST" default:"10"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	required := map[string]string{
		"DATABASE_URL": cfg.DatabaseURL,
		"REDIS_URL":    cfg.RedisURL,
		"RAPIDAPI_KEY": cfg.RapidAPIKey,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if cfg.PipelineTimeout <= 0 {
		return fmt.Errorf("PIPELINE_TIMEOUT must be positive")
	}
	if cfg.MildCooldown <= 0 || cfg.ModerateCooldown <= 0 || cfg.SevereCooldown <= 0 {
		return fmt.Errorf("moderation cooldown durations must be positive")
	}
	if cfg.MildCooldown > cfg.ModerateCooldown || cfg.ModerateCooldown > cfg.SevereCooldown {
		return fmt.Errorf("moderation cooldowns must escalate: mild <= moderate <= severe")
	}

	return nil
}
