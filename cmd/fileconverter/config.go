package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	fileconverter "github.com/nicholasgasior/fileconverter-go"
	"github.com/nicholasgasior/fileconverter-go/internal/history"
)

// Config is the merged configuration of file, environment and flags.
type Config struct {
	Quality             string        `mapstructure:"quality" yaml:"quality"`
	Overwrite           bool          `mapstructure:"overwrite" yaml:"overwrite"`
	MaintainAspectRatio bool          `mapstructure:"maintain_aspect_ratio" yaml:"maintain_aspect_ratio"`
	OutputDir           string        `mapstructure:"output_dir" yaml:"output_dir"`
	Workers             int           `mapstructure:"workers" yaml:"workers"`
	DelegateTimeout     time.Duration `mapstructure:"delegate_timeout" yaml:"delegate_timeout"`
	Verbose             bool          `mapstructure:"verbose" yaml:"verbose"`
	LogFormat           string        `mapstructure:"log_format" yaml:"log_format"`
	Tools               ToolsConfig   `mapstructure:"tools" yaml:"tools"`
	History             HistoryConfig `mapstructure:"history" yaml:"history"`
}

// ToolsConfig overrides the external tool binaries.
type ToolsConfig struct {
	FFmpeg string `mapstructure:"ffmpeg" yaml:"ffmpeg"`
	Office string `mapstructure:"office" yaml:"office"`
	Magick string `mapstructure:"magick" yaml:"magick"`
}

// HistoryConfig controls the run ledger.
type HistoryConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Path defaults to history.DefaultPath.
	Path string `mapstructure:"path" yaml:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("quality", string(fileconverter.QualityHigh))
	v.SetDefault("overwrite", false)
	v.SetDefault("maintain_aspect_ratio", true)
	v.SetDefault("output_dir", ".")
	v.SetDefault("workers", 1)
	v.SetDefault("delegate_timeout", time.Duration(0))
	v.SetDefault("verbose", false)
	v.SetDefault("log_format", "text")
	v.SetDefault("tools.ffmpeg", "")
	v.SetDefault("tools.office", "")
	v.SetDefault("tools.magick", "")
	v.SetDefault("history.enabled", false)
	v.SetDefault("history.path", "")
}

// loadConfig decodes and validates the configuration held by v.
func loadConfig(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if _, err := fileconverter.ParseQuality(cfg.Quality); err != nil {
		return Config{}, err
	}
	if cfg.Workers < 1 {
		return Config{}, fmt.Errorf("workers must be at least 1, got %d", cfg.Workers)
	}
	if cfg.DelegateTimeout < 0 {
		return Config{}, fmt.Errorf("delegate_timeout must not be negative")
	}
	switch strings.ToLower(cfg.LogFormat) {
	case "", "text", "json":
	default:
		return Config{}, fmt.Errorf("invalid log_format %q (want text or json)", cfg.LogFormat)
	}
	return cfg, nil
}

// options returns the per-batch conversion options.
func (c Config) options() fileconverter.Options {
	q, _ := fileconverter.ParseQuality(c.Quality)
	return fileconverter.Options{
		Quality:             q,
		Overwrite:           c.Overwrite,
		MaintainAspectRatio: c.MaintainAspectRatio,
	}
}

func (c Config) historyPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	return history.DefaultPath()
}

func newEngine(cfg Config, logger *slog.Logger) *fileconverter.Engine {
	return fileconverter.New(
		fileconverter.WithLogger(logger),
		fileconverter.WithWorkers(cfg.Workers),
		fileconverter.WithDelegateTimeout(cfg.DelegateTimeout),
		fileconverter.WithFFmpegBinary(cfg.Tools.FFmpeg),
		fileconverter.WithOfficeBinary(cfg.Tools.Office),
		fileconverter.WithMagickBinary(cfg.Tools.Magick),
	)
}
