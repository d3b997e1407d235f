package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"github.com/courtside/competition-engine/models"
)

// Config хранит настройки движка по умолчанию, загружаемые из окружения.
// Per-event rules supplied by the caller always win; these defaults cover
// standalone matches and the simulation CLI.
type Config struct {
	GameMode        string `env:"ENGINE_GAME_MODE" envDefault:"TIME"`
	DurationMinutes int    `env:"ENGINE_DURATION_MINUTES" envDefault:"10"`
	PointsToWin     int    `env:"ENGINE_POINTS_TO_WIN" envDefault:"11"`
	AutoEnd         bool   `env:"ENGINE_AUTO_END" envDefault:"true"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from the environment, honoring a .env file when
// present (useful for local development; its absence is not an error).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine configuration: %w", err)
	}
	if err := cfg.DefaultRules().Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultRules converts the configured defaults into match rules.
func (c *Config) DefaultRules() models.MatchRules {
	return models.MatchRules{
		GameMode:        models.GameMode(strings.ToUpper(c.GameMode)),
		DurationMinutes: c.DurationMinutes,
		PointsToWin:     c.PointsToWin,
		ShouldAutoEnd:   c.AutoEnd,
	}
}

// SlogLevel maps the configured level name onto slog's levels, defaulting
// to info for unknown values.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
