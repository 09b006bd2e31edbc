package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/achilleasa/go-raytrace/log"
	"github.com/achilleasa/go-raytrace/tracer"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidFrameSize = errors.New("config: frame dimensions must be positive")
	ErrInvalidThreads   = errors.New("config: thread count must be positive")
)

// Render settings.
type Render struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Max number of reflection and refraction bounces.
	MaxBounces uint8 `yaml:"max_bounces"`

	// Number of worker goroutines.
	Threads int `yaml:"threads"`

	// Samples per pixel (1, 2, 4, 8 or 16).
	AntiAliasing int `yaml:"anti_aliasing"`

	// Output image file. If empty a timestamped png filename is generated.
	Output string `yaml:"output"`
}

// Rotating log file settings.
type LogFile struct {
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Logging settings.
type Logging struct {
	// One of debug, info, notice, warning or error.
	Level string  `yaml:"level"`
	File  LogFile `yaml:"file"`
}

type Config struct {
	Render  Render  `yaml:"render"`
	Logging Logging `yaml:"logging"`
}

// Get the default configuration.
func Default() Config {
	return Config{
		Render: Render{
			Width:        640,
			Height:       480,
			MaxBounces:   4,
			Threads:      runtime.NumCPU(),
			AntiAliasing: 1,
		},
		Logging: Logging{
			Level: "notice",
			File: LogFile{
				MaxSizeMB:  100,
				MaxBackups: 3,
				MaxAgeDays: 28,
			},
		},
	}
}

// Load configuration from a YAML file. Settings defined by the file
// override the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: could not parse %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Check the configuration for errors.
func (cfg Config) Validate() error {
	if cfg.Render.Width <= 0 || cfg.Render.Height <= 0 {
		return fmt.Errorf("%w; got %dx%d", ErrInvalidFrameSize, cfg.Render.Width, cfg.Render.Height)
	}
	if cfg.Render.Threads <= 0 {
		return fmt.Errorf("%w; got %d", ErrInvalidThreads, cfg.Render.Threads)
	}
	if mode := tracer.AAMode(cfg.Render.AntiAliasing); cfg.Render.AntiAliasing < 0 || cfg.Render.AntiAliasing > 255 || len(mode.Offsets()) == 0 {
		return fmt.Errorf("config: %w: %d", tracer.ErrInvalidAAMode, cfg.Render.AntiAliasing)
	}
	if _, err := log.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("config: invalid log level %q", cfg.Logging.Level)
	}
	return nil
}

// Get the logger level.
func (cfg Config) LogLevel() log.Level {
	level, _ := log.ParseLevel(cfg.Logging.Level)
	return level
}

// Get the log file sink settings.
func (cfg Config) LogFile() log.FileConfig {
	return log.FileConfig{
		Path:       cfg.Logging.File.Path,
		MaxSizeMB:  cfg.Logging.File.MaxSizeMB,
		MaxBackups: cfg.Logging.File.MaxBackups,
		MaxAgeDays: cfg.Logging.File.MaxAgeDays,
		Compress:   cfg.Logging.File.Compress,
	}
}
