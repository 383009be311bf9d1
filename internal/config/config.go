package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Assets  AssetsConfig  `mapstructure:"assets"`
	Reveal  RevealConfig  `mapstructure:"reveal"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Log     LogConfig     `mapstructure:"log"`
}

// CatalogConfig locates the card catalog and its sqlite cache.
type CatalogConfig struct {
	URL        string `mapstructure:"url"`
	CachePath  string `mapstructure:"cache_path"`
	Proxied    bool   `mapstructure:"proxied"`
	BucketHost string `mapstructure:"bucket_host"`
}

// AssetsConfig controls image preloading.
type AssetsConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// RevealConfig holds hand size and animation timings.
type RevealConfig struct {
	HandSize   int           `mapstructure:"hand_size"`
	PackOpen   time.Duration `mapstructure:"pack_open"`
	CycleTop   time.Duration `mapstructure:"cycle_top"`
	PhaseBlend time.Duration `mapstructure:"phase_blend"`
	FPS        int           `mapstructure:"fps"`
}

// BridgeConfig enables the HTTP render bridge. An empty Addr disables it.
type BridgeConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig holds the log file location and level.
type LogConfig struct {
	Path  string `mapstructure:"path"`
	Level string `mapstructure:"level"`
}

const defaultBucketHost = "ocs-production-public-images.s3.amazonaws.com"

// Path returns the config file location. PACKREVEAL_CONFIG overrides it.
func Path() string {
	if p := os.Getenv("PACKREVEAL_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "packreveal", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix PACKREVEAL_.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("PACKREVEAL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
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

func setDefaults(v *viper.Viper) {
	home := os.Getenv("HOME")
	v.SetDefault("catalog.url", "adam_pokemon_render.csv")
	v.SetDefault("catalog.cache_path", filepath.Join(home, ".local", "share", "packreveal", "catalog.db"))
	v.SetDefault("catalog.proxied", true)
	v.SetDefault("catalog.bucket_host", defaultBucketHost)
	v.SetDefault("assets.base_url", "https://"+defaultBucketHost)
	v.SetDefault("assets.concurrency", 6)
	v.SetDefault("assets.timeout", 15*time.Second)
	v.SetDefault("reveal.hand_size", 5)
	v.SetDefault("reveal.pack_open", 800*time.Millisecond)
	v.SetDefault("reveal.cycle_top", 950*time.Millisecond)
	v.SetDefault("reveal.phase_blend", 1100*time.Millisecond)
	v.SetDefault("reveal.fps", 60)
	v.SetDefault("bridge.addr", "")
	v.SetDefault("log.path", filepath.Join(home, ".local", "state", "packreveal", "packreveal.log"))
	v.SetDefault("log.level", "info")
}

// Defaults returns the built-in configuration, ignoring file and env.
func Defaults() (Config, error) {
	v := viper.New()
	setDefaults(v)
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal defaults: %w", err)
	}
	return c, nil
}

// WriteDefaultsIfMissing writes the built-in configuration to Path when no
// config file exists yet. It reports whether a file was written.
func WriteDefaultsIfMissing() (bool, error) {
	if _, err := os.Stat(Path()); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("stat config: %w", err)
	}
	c, err := Defaults()
	if err != nil {
		return false, err
	}
	if err := Save(c); err != nil {
		return false, err
	}
	return true, nil
}

// Validate rejects settings the reveal cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Catalog.URL) == "" {
		errs = append(errs, errors.New("catalog.url must be set"))
	}
	if c.Assets.Concurrency <= 0 {
		errs = append(errs, fmt.Errorf("assets.concurrency must be positive, got %d", c.Assets.Concurrency))
	}
	if c.Assets.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("assets.timeout must be positive, got %s", c.Assets.Timeout))
	}
	if c.Reveal.HandSize <= 0 {
		errs = append(errs, fmt.Errorf("reveal.hand_size must be positive, got %d", c.Reveal.HandSize))
	}
	if c.Reveal.FPS <= 0 {
		errs = append(errs, fmt.Errorf("reveal.fps must be positive, got %d", c.Reveal.FPS))
	}
	for key, d := range map[string]time.Duration{
		"reveal.pack_open":   c.Reveal.PackOpen,
		"reveal.cycle_top":   c.Reveal.CycleTop,
		"reveal.phase_blend": c.Reveal.PhaseBlend,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", key, d))
		}
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}

// FrameInterval is the tick period derived from Reveal.FPS.
func (c Config) FrameInterval() time.Duration {
	if c.Reveal.FPS <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.Reveal.FPS)
}

// Save writes the provided config to disk, creating the config directory if needed.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("catalog.url", cfg.Catalog.URL)
	v.Set("catalog.cache_path", cfg.Catalog.CachePath)
	v.Set("catalog.proxied", cfg.Catalog.Proxied)
	v.Set("catalog.bucket_host", cfg.Catalog.BucketHost)
	v.Set("assets.base_url", cfg.Assets.BaseURL)
	v.Set("assets.concurrency", cfg.Assets.Concurrency)
	v.Set("assets.timeout", cfg.Assets.Timeout.String())
	v.Set("reveal.hand_size", cfg.Reveal.HandSize)
	v.Set("reveal.pack_open", cfg.Reveal.PackOpen.String())
	v.Set("reveal.cycle_top", cfg.Reveal.CycleTop.String())
	v.Set("reveal.phase_blend", cfg.Reveal.PhaseBlend.String())
	v.Set("reveal.fps", cfg.Reveal.FPS)
	v.Set("bridge.addr", cfg.Bridge.Addr)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
