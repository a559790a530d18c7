package model

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// DateFormat selects how ambiguous numeric dates such as 1/2/1953 are read
type DateFormat string

const (
	DateFormatUS            DateFormat = "US"            // M/D/YYYY
	DateFormatInternational DateFormat = "International" // D/M/YYYY
)

// ParseDateFormat maps the spellings accepted in config files and note headers
// to a DateFormat. The second return value is false for unknown spellings.
func ParseDateFormat(s string) (DateFormat, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "us", "m/d/yyyy", "mdy":
		return DateFormatUS, true
	case "international", "intl", "d/m/yyyy", "dmy":
		return DateFormatInternational, true
	}
	return "", false
}

// SortOrder controls timeline ordering
type SortOrder string

const (
	SortAscending  SortOrder = "asc"
	SortDescending SortOrder = "desc"
)

// ExtractConfig is the immutable snapshot handed to the extraction engine
type ExtractConfig struct {
	Language           string     `yaml:"language" mapstructure:"language"`                       // en, es, fr, ja
	DateFormat         DateFormat `yaml:"date_format" mapstructure:"date_format"`                 // US or International
	IncludeTagDates    bool       `yaml:"include_tag_dates" mapstructure:"include_tag_dates"`     // #date/ and #year/ tags
	IncludeYearOnly    bool       `yaml:"include_year_only" mapstructure:"include_year_only"`     // bare 4-digit years in text
	ExcludeScreenshots bool       `yaml:"exclude_screenshots" mapstructure:"exclude_screenshots"` // ignore dates inside image embeds
}

// Validate normalizes the date format spelling. Unknown languages are left
// alone; the locale registry falls back to its default.
func (c *ExtractConfig) Validate() error {
	c.Language = strings.ToLower(strings.TrimSpace(c.Language))
	if c.DateFormat == "" {
		c.DateFormat = DateFormatUS
		return nil
	}
	f, ok := ParseDateFormat(string(c.DateFormat))
	if !ok {
		return fmt.Errorf("invalid date format %q (want US or International)", c.DateFormat)
	}
	c.DateFormat = f
	return nil
}

// Fingerprint returns a stable string identifying the settings that affect
// extraction output. It is part of the result cache key.
func (c ExtractConfig) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%t|%t|%t", c.Language, c.DateFormat, c.IncludeTagDates, c.IncludeYearOnly, c.ExcludeScreenshots)
}

// TimelineConfig holds caller-side presentation settings
type TimelineConfig struct {
	SortOrder                   SortOrder `yaml:"sort_order" mapstructure:"sort_order"`
	MonthThreshold              int       `yaml:"month_threshold" mapstructure:"month_threshold"`
	ShowFileLinks               bool      `yaml:"show_file_links" mapstructure:"show_file_links"`
	ShowYearMarkersWithYearOnly bool      `yaml:"show_year_markers_with_year_only" mapstructure:"show_year_markers_with_year_only"`
}

// CacheConfig controls the per-document result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch fan-out
type ConcurrencyConfig struct {
	Workers        int     `yaml:"workers" mapstructure:"workers"`
	ReadsPerSecond float64 `yaml:"reads_per_second" mapstructure:"reads_per_second"` // per directory, 0 = unlimited
	Burst          int     `yaml:"burst" mapstructure:"burst"`
	MaxFileBytes   int64   `yaml:"max_file_bytes" mapstructure:"max_file_bytes"`
}

// OutputConfig controls logging and report output
type OutputConfig struct {
	Verbose   bool   `yaml:"verbose" mapstructure:"verbose"`
	LogLevel  string `yaml:"log_level" mapstructure:"log_level"`
	LogPretty bool   `yaml:"log_pretty" mapstructure:"log_pretty"`
}

// Config is the complete application configuration
type Config struct {
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	Timeline    TimelineConfig    `yaml:"timeline" mapstructure:"timeline"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	cacheDir := filepath.Join(os.TempDir(), "milestones-cache")
	if home, err := os.UserHomeDir(); err == nil {
		cacheDir = filepath.Join(home, ".milestones", "cache")
	}

	return &Config{
		Extract: ExtractConfig{
			Language:           "en",
			DateFormat:         DateFormatUS,
			IncludeTagDates:    true,
			IncludeYearOnly:    false,
			ExcludeScreenshots: true,
		},
		Timeline: TimelineConfig{
			SortOrder:                   SortAscending,
			MonthThreshold:              10,
			ShowFileLinks:               true,
			ShowYearMarkersWithYearOnly: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       cacheDir,
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:        runtime.NumCPU(),
			ReadsPerSecond: 0,
			Burst:          5,
			MaxFileBytes:   4 << 20,
		},
		Output: OutputConfig{
			LogLevel: "info",
		},
	}
}
