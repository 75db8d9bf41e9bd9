// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables that override configuration.
// Nested keys use a double underscore: PANELBOARD_PAGE__TITLE -> page.title.
const EnvPrefix = "PANELBOARD_"

// Config holds all application configuration.
type Config struct {
	Environment     string        `koanf:"environment" yaml:"environment"`
	Port            string        `koanf:"port" yaml:"port"`
	DBPath          string        `koanf:"db_path" yaml:"db_path"`
	LogLevel        string        `koanf:"log_level" yaml:"log_level"`
	HostLabel       string        `koanf:"host_label" yaml:"host_label"`
	AllowedOrigins  []string      `koanf:"allowed_origins" yaml:"allowed_origins"`
	SessionTTL      time.Duration `koanf:"session_ttl" yaml:"session_ttl"`
	SweepInterval   time.Duration `koanf:"sweep_interval" yaml:"sweep_interval"`
	CounterInterval time.Duration `koanf:"counter_interval" yaml:"counter_interval"`
	MaxUploadBytes  int64         `koanf:"max_upload_bytes" yaml:"max_upload_bytes"`
	Chat            ChatConfig    `koanf:"chat" yaml:"chat"`
	Page            PageConfig    `koanf:"page" yaml:"page"`
}

// ChatConfig controls chat submission throttling.
type ChatConfig struct {
	RatePerSecond float64 `koanf:"rate_per_second" yaml:"rate_per_second"`
	Burst         int     `koanf:"burst" yaml:"burst"`
}

// PageConfig holds the static page metadata set once per process.
type PageConfig struct {
	Title        string     `koanf:"title" yaml:"title"`
	Icon         string     `koanf:"icon" yaml:"icon"`
	Logo         string     `koanf:"logo" yaml:"logo"`
	Layout       string     `koanf:"layout" yaml:"layout"`
	SidebarState string     `koanf:"sidebar_state" yaml:"sidebar_state"`
	Footer       string     `koanf:"footer" yaml:"footer"`
	Menu         MenuConfig `koanf:"menu" yaml:"menu"`
}

// MenuConfig holds the help/about links shown in the page menu.
type MenuConfig struct {
	GetHelp   string `koanf:"get_help" yaml:"get_help"`
	ReportBug string `koanf:"report_bug" yaml:"report_bug"`
	About     string `koanf:"about" yaml:"about"` // markdown
}

const (
	LayoutWide       = "wide"
	LayoutCentered   = "centered"
	SidebarExpanded  = "expanded"
	SidebarCollapsed = "collapsed"
)

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Environment:     "development",
		Port:            "8080",
		DBPath:          "./data/panelboard.db",
		LogLevel:        "info",
		HostLabel:       "EC2",
		AllowedOrigins:  []string{"*"},
		SessionTTL:      60 * time.Minute,
		SweepInterval:   5 * time.Minute,
		CounterInterval: 50 * time.Millisecond,
		MaxUploadBytes:  200 << 20,
		Chat: ChatConfig{
			RatePerSecond: 2,
			Burst:         5,
		},
		Page: PageConfig{
			Title:        "Modern Dashboard Demo",
			Icon:         "📈",
			Logo:         "/static/logo.svg",
			Layout:       LayoutWide,
			SidebarState: SidebarExpanded,
			Footer:       "Modern dashboard app running on your private EC2 • Fully headless • No local tunnel needed!",
			Menu: MenuConfig{
				GetHelp:   "https://go.dev/doc/",
				ReportBug: "https://github.com/ashureev/panelboard/issues",
				About:     "# Modern Dashboard Demo\nBuilt in 2025!",
			},
		},
	}
}

// Load reads configuration from the optional YAML file at path, then overlays
// environment variable overrides (PANELBOARD_*). A plain PORT variable is
// honoured last so the server runs unchanged on hosting platforms that set it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("access config %s: %w", path, err)
		} else {
			slog.Info("Config file not found, using defaults", "path", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Port = getEnv("PORT", cfg.Port)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be > 0")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0")
	}
	if c.CounterInterval <= 0 {
		return fmt.Errorf("counter_interval must be > 0")
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max_upload_bytes must be > 0")
	}
	if c.Chat.RatePerSecond <= 0 || c.Chat.Burst <= 0 {
		return fmt.Errorf("chat rate_per_second and burst must be > 0")
	}
	switch c.Page.Layout {
	case LayoutWide, LayoutCentered:
	default:
		return fmt.Errorf("invalid page layout %q: must be wide or centered", c.Page.Layout)
	}
	switch c.Page.SidebarState {
	case SidebarExpanded, SidebarCollapsed:
	default:
		return fmt.Errorf("invalid sidebar_state %q: must be expanded or collapsed", c.Page.SidebarState)
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment != "production"
}

// SlogLevel maps LogLevel onto a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
