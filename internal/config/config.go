package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/riordanpawley/retrodesk/internal/core/layout"
	"github.com/riordanpawley/retrodesk/internal/core/sequencer"
	"github.com/riordanpawley/retrodesk/internal/domain"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RETRODESK_TIMINGS_APPEARDELAYMS
const EnvPrefix = "RETRODESK"

// FileName is the project config file name, without extension
const FileName = ".retrodesk"

// Config represents the full retrodesk configuration
type Config struct {
	Version        int           `json:"version" yaml:"version" mapstructure:"version"`
	ContentPath    string        `json:"contentPath,omitempty" yaml:"contentPath,omitempty" mapstructure:"contentPath"`
	CascadeOrder   []string      `json:"cascadeOrder" yaml:"cascadeOrder" mapstructure:"cascadeOrder"`
	TypingSequence []string      `json:"typingSequence" yaml:"typingSequence" mapstructure:"typingSequence"`
	Timings        TimingsConfig `json:"timings" yaml:"timings" mapstructure:"timings"`
	Desktop        DesktopConfig `json:"desktop" yaml:"desktop" mapstructure:"desktop"`
	Log            LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
}

// TimingsConfig holds the choreography delays in milliseconds
type TimingsConfig struct {
	AppearDelayMs     int `json:"appearDelayMs" yaml:"appearDelayMs" mapstructure:"appearDelayMs"`
	SettleDelayMs     int `json:"settleDelayMs" yaml:"settleDelayMs" mapstructure:"settleDelayMs"`
	MinimizeDelayMs   int `json:"minimizeDelayMs" yaml:"minimizeDelayMs" mapstructure:"minimizeDelayMs"`
	ActivateDelayMs   int `json:"activateDelayMs" yaml:"activateDelayMs" mapstructure:"activateDelayMs"`
	TypeIntervalMs    int `json:"typeIntervalMs" yaml:"typeIntervalMs" mapstructure:"typeIntervalMs"`
	LineIntervalMs    int `json:"lineIntervalMs" yaml:"lineIntervalMs" mapstructure:"lineIntervalMs"`
	LinePauseMs       int `json:"linePauseMs" yaml:"linePauseMs" mapstructure:"linePauseMs"`
	CompletionDelayMs int `json:"completionDelayMs" yaml:"completionDelayMs" mapstructure:"completionDelayMs"`
}

// DesktopConfig contains desktop geometry and placement settings
type DesktopConfig struct {
	Width   int     `json:"width" yaml:"width" mapstructure:"width"`
	Height  int     `json:"height" yaml:"height" mapstructure:"height"`
	Seed    uint64  `json:"seed" yaml:"seed" mapstructure:"seed"`
	Jitter  float64 `json:"jitter" yaml:"jitter" mapstructure:"jitter"`
	Padding int     `json:"padding" yaml:"padding" mapstructure:"padding"`
	FrameMs int     `json:"frameMs" yaml:"frameMs" mapstructure:"frameMs"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level string `json:"level" yaml:"level" mapstructure:"level"`
	Path  string `json:"path,omitempty" yaml:"path,omitempty" mapstructure:"path"`
}

// DefaultConfig returns a Config with the stock tour
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Version: CurrentVersion,
		CascadeOrder: []string{
			"problem", "category", "experience", "packages",
			"contact", "imprint", "footer", "hero",
		},
		TypingSequence: []string{
			"hero", "problem", "category", "experience",
			"packages", "contact",
		},
		Timings: TimingsConfig{
			AppearDelayMs:     150,
			SettleDelayMs:     500,
			MinimizeDelayMs:   200,
			ActivateDelayMs:   100,
			TypeIntervalMs:    50,
			LineIntervalMs:    32,
			LinePauseMs:       400,
			CompletionDelayMs: 500,
		},
		Desktop: DesktopConfig{
			Width:   120,
			Height:  36,
			Seed:    0,
			Jitter:  layout.DefaultJitter,
			Padding: layout.DefaultPadding,
			FrameMs: 16, // ~60 fps
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(homeDir, ".local", "state", "retrodesk", "retrodesk.log"),
		},
	}
}

// LoadConfig loads configuration with priority:
// 1. RETRODESK_* environment variables
// 2. configPath, or .retrodesk.{yaml,yml,json} in projectPath (with version migration support)
// 3. Defaults
func LoadConfig(projectPath, configPath string) (*Config, error) {
	raw, err := readConfigFile(projectPath, configPath)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if raw != nil {
		if err := v.MergeConfigMap(raw); err != nil {
			return nil, fmt.Errorf("failed to merge config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Version = CurrentVersion

	merged := MergeWithDefaults(&cfg)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// readConfigFile returns the migrated settings of the config file, or nil
// when there is none
func readConfigFile(projectPath, configPath string) (map[string]interface{}, error) {
	f := viper.New()
	if configPath != "" {
		f.SetConfigFile(configPath)
	} else {
		f.SetConfigName(FileName)
		f.AddConfigPath(projectPath)
	}

	if err := f.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && errors.As(err, &notFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	raw, err := MigrateSettings(f.AllSettings())
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(f.ConfigFileUsed()), err)
	}
	return raw, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("version", d.Version)
	v.SetDefault("contentPath", d.ContentPath)
	v.SetDefault("cascadeOrder", d.CascadeOrder)
	v.SetDefault("typingSequence", d.TypingSequence)

	v.SetDefault("timings.appearDelayMs", d.Timings.AppearDelayMs)
	v.SetDefault("timings.settleDelayMs", d.Timings.SettleDelayMs)
	v.SetDefault("timings.minimizeDelayMs", d.Timings.MinimizeDelayMs)
	v.SetDefault("timings.activateDelayMs", d.Timings.ActivateDelayMs)
	v.SetDefault("timings.typeIntervalMs", d.Timings.TypeIntervalMs)
	v.SetDefault("timings.lineIntervalMs", d.Timings.LineIntervalMs)
	v.SetDefault("timings.linePauseMs", d.Timings.LinePauseMs)
	v.SetDefault("timings.completionDelayMs", d.Timings.CompletionDelayMs)

	v.SetDefault("desktop.width", d.Desktop.Width)
	v.SetDefault("desktop.height", d.Desktop.Height)
	v.SetDefault("desktop.seed", d.Desktop.Seed)
	v.SetDefault("desktop.jitter", d.Desktop.Jitter)
	v.SetDefault("desktop.padding", d.Desktop.Padding)
	v.SetDefault("desktop.frameMs", d.Desktop.FrameMs)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", d.Log.Path)
}

// SaveConfig saves configuration to the specified path with version information
func SaveConfig(cfg *Config, path string) error {
	data, err := MarshalVersionedConfig(cfg, filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// MergeWithDefaults fills in missing values with defaults. Jitter and seed
// are left alone since zero is meaningful for both.
func MergeWithDefaults(cfg *Config) *Config {
	defaults := DefaultConfig()

	if cfg.Version == 0 {
		cfg.Version = defaults.Version
	}
	if cfg.CascadeOrder == nil {
		cfg.CascadeOrder = defaults.CascadeOrder
	}
	if cfg.TypingSequence == nil {
		cfg.TypingSequence = defaults.TypingSequence
	}

	// Merge Timings config
	mergeMs(&cfg.Timings.AppearDelayMs, defaults.Timings.AppearDelayMs)
	mergeMs(&cfg.Timings.SettleDelayMs, defaults.Timings.SettleDelayMs)
	mergeMs(&cfg.Timings.MinimizeDelayMs, defaults.Timings.MinimizeDelayMs)
	mergeMs(&cfg.Timings.ActivateDelayMs, defaults.Timings.ActivateDelayMs)
	mergeMs(&cfg.Timings.TypeIntervalMs, defaults.Timings.TypeIntervalMs)
	mergeMs(&cfg.Timings.LineIntervalMs, defaults.Timings.LineIntervalMs)
	mergeMs(&cfg.Timings.LinePauseMs, defaults.Timings.LinePauseMs)
	mergeMs(&cfg.Timings.CompletionDelayMs, defaults.Timings.CompletionDelayMs)

	// Merge Desktop config
	if cfg.Desktop.Width == 0 {
		cfg.Desktop.Width = defaults.Desktop.Width
	}
	if cfg.Desktop.Height == 0 {
		cfg.Desktop.Height = defaults.Desktop.Height
	}
	if cfg.Desktop.FrameMs == 0 {
		cfg.Desktop.FrameMs = defaults.Desktop.FrameMs
	}

	// Merge Log config
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.Path == "" {
		cfg.Log.Path = defaults.Log.Path
	}

	return cfg
}

func mergeMs(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Validate checks the orderings and numeric ranges
func (c *Config) Validate() error {
	if _, err := c.Cascade(); err != nil {
		return err
	}
	if _, err := c.Sequence(); err != nil {
		return err
	}

	t := c.Timings
	for name, ms := range map[string]int{
		"appearDelayMs":     t.AppearDelayMs,
		"settleDelayMs":     t.SettleDelayMs,
		"minimizeDelayMs":   t.MinimizeDelayMs,
		"activateDelayMs":   t.ActivateDelayMs,
		"typeIntervalMs":    t.TypeIntervalMs,
		"lineIntervalMs":    t.LineIntervalMs,
		"linePauseMs":       t.LinePauseMs,
		"completionDelayMs": t.CompletionDelayMs,
	} {
		if ms < 0 {
			return &domain.ConfigError{Op: "timings", Message: fmt.Sprintf("%s must not be negative, got %d", name, ms)}
		}
	}

	if c.Desktop.Width < 0 || c.Desktop.Height < 0 {
		return &domain.ConfigError{Op: "desktop", Message: fmt.Sprintf("invalid size %dx%d", c.Desktop.Width, c.Desktop.Height)}
	}
	if c.Desktop.Jitter < 0 || c.Desktop.Jitter > 0.5 {
		return &domain.ConfigError{Op: "desktop", Message: fmt.Sprintf("jitter %.3f outside [0, 0.5]", c.Desktop.Jitter)}
	}
	if c.Desktop.FrameMs < 0 {
		return &domain.ConfigError{Op: "desktop", Message: fmt.Sprintf("frameMs must not be negative, got %d", c.Desktop.FrameMs)}
	}
	return nil
}

// Cascade returns the parsed cascade order
func (c *Config) Cascade() ([]domain.SectionID, error) {
	ids, err := domain.ParseSequence(c.CascadeOrder)
	if err != nil {
		return nil, &domain.ConfigError{Op: "cascade", Message: "bad cascadeOrder", Err: err}
	}
	return ids, nil
}

// Sequence returns the parsed typing sequence
func (c *Config) Sequence() ([]domain.SectionID, error) {
	ids, err := domain.ParseSequence(c.TypingSequence)
	if err != nil {
		return nil, &domain.ConfigError{Op: "sequence", Message: "bad typingSequence", Err: err}
	}
	return ids, nil
}

// SequencerTimings converts the millisecond settings
func (c *Config) SequencerTimings() sequencer.Timings {
	ms := func(n int) time.Duration { return time.Duration(n) * time.Millisecond }
	return sequencer.Timings{
		AppearDelay:     ms(c.Timings.AppearDelayMs),
		SettleDelay:     ms(c.Timings.SettleDelayMs),
		MinimizeDelay:   ms(c.Timings.MinimizeDelayMs),
		ActivateDelay:   ms(c.Timings.ActivateDelayMs),
		TypeInterval:    ms(c.Timings.TypeIntervalMs),
		LineInterval:    ms(c.Timings.LineIntervalMs),
		LinePause:       ms(c.Timings.LinePauseMs),
		CompletionDelay: ms(c.Timings.CompletionDelayMs),
	}
}

// Viewport returns the configured desktop size
func (c *Config) Viewport() domain.Size {
	return domain.Size{Width: c.Desktop.Width, Height: c.Desktop.Height}
}

// FrameInterval returns the presentation tick
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Desktop.FrameMs) * time.Millisecond
}

// Load is a convenience function that loads config from current directory
func Load(configPath string) (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}
	return LoadConfig(cwd, configPath)
}
