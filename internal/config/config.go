// Package config loads the TOML configuration shared by the legacy CLI and
// legacy-server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/moose735/TLOED/internal/badges"
	"github.com/moose735/TLOED/internal/draftvalue"
	"github.com/moose735/TLOED/internal/model"
)

var (
	ErrInvalidSeason        = errors.New("config: invalid season")
	ErrInvalidCategory      = errors.New("config: invalid drafter badge category")
	ErrInvalidFeeSource     = errors.New("config: invalid fee source")
	ErrInvalidTimestampUnit = errors.New("config: invalid timestamp unit")
	ErrInvalidStrategy      = errors.New("config: invalid vorp strategy")
	ErrInvalidCurve         = errors.New("config: invalid draft value curve")
	ErrInvalidLogLevel      = errors.New("config: invalid log level")
	ErrInvalidServer        = errors.New("config: invalid server settings")
	ErrMissingDataRoot      = errors.New("config: data root is required")
)

type Config struct {
	Engine EngineConfig `toml:"engine"`
	Data   DataConfig   `toml:"data"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
}

// EngineConfig holds the analytics options. A zero current season is
// filled from the history by WithHistory; a zero week means no week in
// progress.
type EngineConfig struct {
	CurrentSeason        int              `toml:"current_season"`
	CurrentWeek          int              `toml:"current_week"`
	DrafterBadgeCategory string           `toml:"drafter_badge_category"`
	FeeSource            string           `toml:"fee_source"`
	TimestampUnit        string           `toml:"timestamp_unit"`
	RecentLimit          int              `toml:"recent_limit"`
	VORPStrategy         string           `toml:"vorp_strategy"`
	Curve                draftvalue.Curve `toml:"curve"`
}

type DataConfig struct {
	Root   string `toml:"root"`   // league history directory
	Output string `toml:"output"` // derived JSON; defaults to <root>/derived
}

type ServerConfig struct {
	Addr        string `toml:"addr"`
	Path        string `toml:"path"`
	RequireAuth bool   `toml:"require_auth"`
	AuthHeader  string `toml:"auth_header"`
	APIKeyEnv   string `toml:"api_key_env"`
}

type LogConfig struct {
	Level string `toml:"level"`
	JSON  bool   `toml:"json"`
}

func Default() *Config {
	return &Config{
		Engine: EngineConfig{
			DrafterBadgeCategory: string(model.CategoryDraftBlunder),
			FeeSource:            badges.FeeFromTransactions.String(),
			TimestampUnit:        badges.TimestampAuto.String(),
			RecentLimit:          badges.DefaultRecentLimit,
			VORPStrategy:         draftvalue.PerPickThenSum.String(),
		},
		Data: DataConfig{
			Root: "data/league",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			Path:        "/mcp",
			RequireAuth: true,
			AuthHeader:  "X-API-Key",
			APIKeyEnv:   "LEGACY_MCP_API_KEY",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path or a missing file yields
// the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	e := c.Engine
	if e.CurrentSeason < 0 || e.CurrentWeek < 0 || (e.CurrentWeek > 0 && e.CurrentSeason == 0) {
		return fmt.Errorf("%w: season=%d week=%d", ErrInvalidSeason, e.CurrentSeason, e.CurrentWeek)
	}
	if e.DrafterBadgeCategory != "" && !drafterCategory(e.DrafterBadgeCategory) {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, e.DrafterBadgeCategory)
	}
	if _, err := badges.ParseFeeSource(e.FeeSource); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFeeSource, err)
	}
	if _, err := badges.ParseTimestampUnit(e.TimestampUnit); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTimestampUnit, err)
	}
	if _, err := draftvalue.ParseStrategy(e.VORPStrategy); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidStrategy, err)
	}
	if !e.Curve.IsZero() {
		if err := e.Curve.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidCurve, err)
		}
	}
	if c.Data.Root == "" {
		return ErrMissingDataRoot
	}
	if c.Server.Addr == "" || c.Server.Path == "" || (c.Server.RequireAuth && c.Server.AuthHeader == "") {
		return fmt.Errorf("%w: addr=%q path=%q auth_header=%q", ErrInvalidServer, c.Server.Addr, c.Server.Path, c.Server.AuthHeader)
	}
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogLevel, err)
	}
	return nil
}

// drafterCategory reports whether s may label the negative draft badges.
func drafterCategory(s string) bool {
	cat, ok := model.ParseCategory(s)
	return ok && (cat.IsBlunder() || cat == model.CategoryDraft)
}

// WithHistory returns a copy whose unset current season is the latest
// season of h, so that season's unplayed 0-0 games are not read as ties.
// An explicit current_season is kept.
func (c *Config) WithHistory(h *model.History) *Config {
	out := *c
	if out.Engine.CurrentSeason != 0 || h == nil {
		return &out
	}
	if seasons := h.Seasons(); len(seasons) > 0 {
		out.Engine.CurrentSeason = seasons[len(seasons)-1]
	}
	return &out
}

// OutputDir returns the derived-output directory.
func (c *Config) OutputDir() string {
	if c.Data.Output != "" {
		return c.Data.Output
	}
	return filepath.Join(c.Data.Root, "derived")
}

// BadgeOptions converts the engine section. Call Validate first; unparsable
// values fall back to the engine defaults.
func (c *Config) BadgeOptions() badges.Options {
	fee, _ := badges.ParseFeeSource(c.Engine.FeeSource)
	unit, _ := badges.ParseTimestampUnit(c.Engine.TimestampUnit)
	strategy, _ := draftvalue.ParseStrategy(c.Engine.VORPStrategy)
	cat, _ := model.ParseCategory(c.Engine.DrafterBadgeCategory)
	return badges.Options{
		CurrentSeason:        c.Engine.CurrentSeason,
		DrafterBadgeCategory: cat,
		FeeSource:            fee,
		TimestampUnit:        unit,
		RecentLimit:          c.Engine.RecentLimit,
		Curve:                c.Engine.Curve,
		VORPStrategy:         strategy,
	}
}

// Logger builds the binaries' logrus logger from the log section.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if c.Log.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	return log
}
