package model

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the complete acroeval configuration
type Config struct {
	Scoring     ScoringConfig     `yaml:"scoring" mapstructure:"scoring"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// ScoringConfig controls matching and diagnostics of the scorer
type ScoringConfig struct {
	MinLCS         int  `yaml:"min_lcs" mapstructure:"min_lcs"`                 // Absolute LCS length accepted as a fuzzy match
	MissLogLimit   int  `yaml:"miss_log_limit" mapstructure:"miss_log_limit"`   // Ranks below this log their misses
	StrictLanguage bool `yaml:"strict_language" mapstructure:"strict_language"` // Reject unknown language codes
}

// CacheConfig controls the curve cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls the batch worker pool
type ConcurrencyConfig struct {
	Workers int           `yaml:"workers" mapstructure:"workers"`
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"` // Whole-batch deadline
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir           string   `yaml:"dir" mapstructure:"dir"`
	Formats       []string `yaml:"formats" mapstructure:"formats"` // json, tsv, md
	Verbose       bool     `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool     `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the diagnostics logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // console, json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "acroeval-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".acroeval", "cache")
	}

	return &Config{
		Scoring: ScoringConfig{
			MinLCS:         5,
			MissLogLimit:   2000,
			StrictLanguage: false,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
			Timeout: 30 * time.Minute,
		},
		Output: OutputConfig{
			Dir:           "./acroeval-reports",
			Formats:       []string{FormatJSON, FormatTSV, FormatMarkdown},
			Verbose:       false,
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Report output formats
const (
	FormatJSON     = "json"
	FormatTSV      = "tsv"
	FormatMarkdown = "md"
)

// WantsFormat reports whether the given output format is enabled
func (o OutputConfig) WantsFormat(format string) bool {
	for _, f := range o.Formats {
		if f == format {
			return true
		}
	}
	return false
}
