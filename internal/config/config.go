package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Transition TransitionConfig `mapstructure:"transition"`
	Preload    PreloadConfig    `mapstructure:"preload"`
	Input      InputConfig      `mapstructure:"input"`
	Keys       KeysConfig       `mapstructure:"keys"`
	Markdown   MarkdownConfig   `mapstructure:"markdown"`
	Remote     RemoteConfig     `mapstructure:"remote"`
	Log        LogConfig        `mapstructure:"log"`
	Rehearsal  RehearsalConfig  `mapstructure:"rehearsal"`
}

// TransitionConfig controls slide animation.
type TransitionConfig struct {
	Duration time.Duration `mapstructure:"duration"`
	// Policy is "supersede" or "queue".
	Policy string `mapstructure:"policy"`
	FPS    int    `mapstructure:"fps"`
}

// PreloadConfig controls speculative slide loading.
type PreloadConfig struct {
	Radius    int  `mapstructure:"radius"`
	WarmAll   bool `mapstructure:"warm_all"`
	WarmLimit int  `mapstructure:"warm_limit"`
}

// InputConfig toggles optional input sources.
type InputConfig struct {
	ClickZones      bool `mapstructure:"click_zones"`
	SlideNavigation bool `mapstructure:"slide_navigation"`
}

// KeysConfig lists extra keys per action. The defaults always stay bound.
type KeysConfig struct {
	Next  []string `mapstructure:"next"`
	Prev  []string `mapstructure:"prev"`
	First []string `mapstructure:"first"`
	Last  []string `mapstructure:"last"`
	Jump  []string `mapstructure:"jump"`
	Help  []string `mapstructure:"help"`
	Quit  []string `mapstructure:"quit"`
}

// MarkdownConfig selects the glamour style.
type MarkdownConfig struct {
	Style string `mapstructure:"style"`
}

// RemoteConfig holds settings for slides fetched over HTTP.
type RemoteConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logger settings. Path "-" means stderr.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Path   string `mapstructure:"path"`
}

// RehearsalConfig holds the sqlite navigation log.
type RehearsalConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	DBPath  string `mapstructure:"db_path"`
}

func stateDir() string {
	if d := os.Getenv("XDG_STATE_HOME"); d != "" {
		return filepath.Join(d, "slidedeck")
	}
	return filepath.Join(os.Getenv("HOME"), ".local", "state", "slidedeck")
}

// Path is the config file location: $SLIDEDECK_CONFIG or
// ~/.config/slidedeck/config.toml.
func Path() string {
	if p := os.Getenv("SLIDEDECK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "slidedeck", "config.toml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("transition.duration", 240*time.Millisecond)
	v.SetDefault("transition.policy", "supersede")
	v.SetDefault("transition.fps", 30)
	v.SetDefault("preload.radius", 1)
	v.SetDefault("preload.warm_all", false)
	v.SetDefault("preload.warm_limit", 4)
	v.SetDefault("input.click_zones", true)
	v.SetDefault("input.slide_navigation", true)
	v.SetDefault("keys.next", []string{})
	v.SetDefault("keys.prev", []string{})
	v.SetDefault("keys.first", []string{})
	v.SetDefault("keys.last", []string{})
	v.SetDefault("keys.jump", []string{})
	v.SetDefault("keys.help", []string{})
	v.SetDefault("keys.quit", []string{})
	v.SetDefault("markdown.style", "dark")
	v.SetDefault("remote.timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.path", filepath.Join(stateDir(), "slidedeck.log"))
	v.SetDefault("rehearsal.enabled", false)
	v.SetDefault("rehearsal.db_path", filepath.Join(stateDir(), "rehearsal.db"))
}

// Load reads configuration from file and env. Env var overrides use prefix SLIDEDECK_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("SLIDEDECK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// a missing file just means defaults
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Default returns the built-in configuration.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return c
}

// Validate rejects values the deck cannot run with.
func (c Config) Validate() error {
	switch c.Transition.Policy {
	case "supersede", "queue":
	default:
		return fmt.Errorf("config: transition.policy must be supersede or queue, got %q", c.Transition.Policy)
	}
	if c.Transition.Duration < 0 {
		return fmt.Errorf("config: transition.duration must not be negative")
	}
	if c.Transition.FPS <= 0 {
		return fmt.Errorf("config: transition.fps must be positive")
	}
	if c.Preload.Radius < 0 {
		return fmt.Errorf("config: preload.radius must not be negative")
	}
	return nil
}

// Save writes cfg as toml to path, creating the directory if needed.
// `slidedeck config` uses it to write a starter file.
func Save(cfg Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("transition.duration", cfg.Transition.Duration.String())
	v.Set("transition.policy", cfg.Transition.Policy)
	v.Set("transition.fps", cfg.Transition.FPS)
	v.Set("preload.radius", cfg.Preload.Radius)
	v.Set("preload.warm_all", cfg.Preload.WarmAll)
	v.Set("preload.warm_limit", cfg.Preload.WarmLimit)
	v.Set("input.click_zones", cfg.Input.ClickZones)
	v.Set("input.slide_navigation", cfg.Input.SlideNavigation)
	v.Set("markdown.style", cfg.Markdown.Style)
	v.Set("remote.timeout", cfg.Remote.Timeout.String())
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.path", cfg.Log.Path)
	v.Set("rehearsal.enabled", cfg.Rehearsal.Enabled)
	v.Set("rehearsal.db_path", cfg.Rehearsal.DBPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
