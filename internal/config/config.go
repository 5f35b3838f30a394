// Package config loads paddock settings from a TOML file and PADDOCK_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ErrInvalid is returned by Validate for unusable settings.
var ErrInvalid = errors.New("invalid config")

// Dashboard tab labels accepted by ui.default_tab.
var DashboardTabs = []string{"upcoming", "available", "standings"}

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Team     TeamConfig     `mapstructure:"team"`
	UI       UIConfig       `mapstructure:"ui"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig controls the log file. The TUI owns the terminal, so logs never
// go to stdout.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

// TeamConfig identifies whose dashboard is shown.
type TeamConfig struct {
	Name     string `mapstructure:"name"`
	DriverID string `mapstructure:"driver_id"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DefaultTab string `mapstructure:"default_tab"`
	DateFormat string `mapstructure:"date_format"`
	Mouse      bool   `mapstructure:"mouse"`
	Watch      bool   `mapstructure:"watch"`
}

// Dir returns the paddock config directory.
func Dir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "paddock")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "paddock")
}

// DefaultPath returns the config file used when none is given.
func DefaultPath() string {
	if p := os.Getenv("PADDOCK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

func setDefaults(v *viper.Viper) {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".paddock")

	v.SetDefault("database.path", filepath.Join(dataDir, "paddock.db"))
	v.SetDefault("log.path", filepath.Join(dataDir, "paddock.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("team.name", "Team Name")
	v.SetDefault("team.driver_id", "")
	v.SetDefault("ui.default_tab", "upcoming")
	v.SetDefault("ui.date_format", "Mon 2 Jan 15:04 MST")
	v.SetDefault("ui.mouse", true)
	v.SetDefault("ui.watch", true)
}

// Load reads configuration from path (or DefaultPath when empty) and the
// environment. A missing file is not an error. Env var overrides use the
// prefix PADDOCK_, e.g. PADDOCK_TEAM_DRIVER_ID.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		path = DefaultPath()
	}
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("PADDOCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, c.Validate()
}

// Validate rejects settings the application cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("%w: database.path is empty", ErrInvalid)
	}
	for _, t := range DashboardTabs {
		if c.UI.DefaultTab == t {
			return nil
		}
	}
	return fmt.Errorf("%w: ui.default_tab %q is not one of %s",
		ErrInvalid, c.UI.DefaultTab, strings.Join(DashboardTabs, ", "))
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("team.name", cfg.Team.Name)
	v.Set("team.driver_id", cfg.Team.DriverID)
	v.Set("ui.default_tab", cfg.UI.DefaultTab)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("ui.mouse", cfg.UI.Mouse)
	v.Set("ui.watch", cfg.UI.Watch)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
