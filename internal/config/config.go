package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App    AppConfig
	DB     DBConfig
	HTTP   HTTPConfig
	Log    LogConfig
	Report ReportConfig
	Seed   SeedConfig
}

type AppConfig struct {
	Env  string
	Port string
}

type DBConfig struct {
	Path string // sqlite file, or ":memory:"
}

type HTTPConfig struct {
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxUpload    int64
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ReportConfig controls how reports are computed when a request does not say.
type ReportConfig struct {
	Timezone        string
	IncludeHoldFees bool
}

// Location resolves Timezone; validate has already checked it loads.
func (r ReportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

type SeedConfig struct {
	Path string // order export loaded into an empty database at startup
}

// Load reads configuration.
// Priority (highest to lowest):
// 1. Environment variables with LEDGER_ prefix (e.g., LEDGER_DB_PATH), including
//    those set from a .env file
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is fine; real environment variables win over it.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/ledger")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("LEDGER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetDefault("report.include_hold_fees", true)

	cfg := &Config{
		App: AppConfig{
			Env:  v.GetString("app.env"),
			Port: v.GetString("app.port"),
		},
		DB: DBConfig{
			Path: v.GetString("db.path"),
		},
		HTTP: HTTPConfig{
			ReadTimeout:  v.GetDuration("http.read_timeout"),
			WriteTimeout: v.GetDuration("http.write_timeout"),
			MaxUpload:    v.GetInt64("http.max_upload"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Report: ReportConfig{
			Timezone:        v.GetString("report.timezone"),
			IncludeHoldFees: v.GetBool("report.include_hold_fees"),
		},
		Seed: SeedConfig{
			Path: v.GetString("seed.path"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults sets default values for any empty config fields
func applyDefaults(cfg *Config) {
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.DB.Path == "" {
		cfg.DB.Path = "ledger.db"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 30 * time.Second
	}
	if cfg.HTTP.MaxUpload == 0 {
		cfg.HTTP.MaxUpload = 32 << 20
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.App.Env == "production" {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.Report.Timezone == "" {
		cfg.Report.Timezone = "UTC"
	}
}

func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		return fmt.Errorf("report.timezone %q: %w", c.Report.Timezone, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("log.format must be json or console, got %q", c.Log.Format)
	}
	if c.HTTP.MaxUpload < 0 {
		return fmt.Errorf("http.max_upload cannot be negative")
	}
	return nil
}
