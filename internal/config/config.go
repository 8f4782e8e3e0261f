// Package config reads the settings of void-probe from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Environment variables read by Load.
const (
	EnvWorkers           = "MK_WORD_WORKER"
	EnvPageSize          = "VOID_PROBE_PAGE_SIZE"
	EnvSplitSize         = "VOID_PROBE_SPLIT_SIZE"
	EnvConverter         = "VOID_PROBE_CONVERTER"
	EnvLetterheadContain = "VOID_PROBE_LETTERHEAD_CONTAINS"
	EnvLetterheadPrefix  = "VOID_PROBE_LETTERHEAD_PREFIX"
	EnvLogLevel          = "VOID_PROBE_LOG_LEVEL"
	EnvKeepTemp          = "VOID_PROBE_KEEP_TEMP"
)

// Defaults.
const (
	DefaultWorkers   = 6
	DefaultPageSize  = 50
	DefaultSplitSize = "10MB"
	DefaultLogLevel  = "info"
)

// Config holds all settings of a run.
type Config struct {
	// Workers is the number of concurrent conversions.
	Workers int
	// PageSize is the number of pages per fragment when a source is divided.
	PageSize int
	// SplitSize is the human readable file size above which a source is
	// divided, e.g. "10MB".
	SplitSize string
	// Converter is the conversion command line; empty selects LibreOffice.
	Converter string
	// Letterhead markers: a title row must contain one of Contains or start
	// with one of Prefixes.
	Contains []string
	Prefixes []string
	LogLevel string
	// KeepTemp leaves the work directory in place after a run.
	KeepTemp bool
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Workers:   DefaultWorkers,
		PageSize:  DefaultPageSize,
		SplitSize: DefaultSplitSize,
		Contains:  []string{"康方"},
		Prefixes:  []string{"AKESO"},
		LogLevel:  DefaultLogLevel,
	}
}

// Load reads the environment on top of the defaults and validates the
// result.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
func Load() (*Config, error) {
	return LoadFrom(os.LookupEnv)
}

// LoadFrom is Load with a custom variable lookup.
func LoadFrom(lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("config error: %s must be an integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	if v, ok := lookup(EnvPageSize); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("config error: %s must be an integer, got %q", EnvPageSize, v)
		}
		cfg.PageSize = n
	}
	if v, ok := lookup(EnvSplitSize); ok {
		cfg.SplitSize = v
	}
	if v, ok := lookup(EnvConverter); ok {
		cfg.Converter = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvLetterheadContain); ok {
		cfg.Contains = splitList(v)
	}
	if v, ok := lookup(EnvLetterheadPrefix); ok {
		cfg.Prefixes = splitList(v)
	}
	if v, ok := lookup(EnvLogLevel); ok && strings.TrimSpace(v) != "" {
		cfg.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvKeepTemp); ok && strings.TrimSpace(v) != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("config error: %s must be a boolean, got %q", EnvKeepTemp, v)
		}
		cfg.KeepTemp = b
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList splits a comma separated list, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Validate checks that cfg is usable.
func Validate(cfg *Config) error {
	if cfg.Workers < 1 {
		return fmt.Errorf("config error: worker count must be at least 1, got %d", cfg.Workers)
	}
	if cfg.PageSize < 1 {
		return fmt.Errorf("config error: page size must be at least 1, got %d", cfg.PageSize)
	}
	if _, err := ParseFileSize(cfg.SplitSize); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if len(cfg.Contains) == 0 && len(cfg.Prefixes) == 0 {
		return fmt.Errorf("config error: at least one letterhead marker is required")
	}
	if _, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}

// SplitBytes returns SplitSize in bytes; 0 means never divide.
func (c *Config) SplitBytes() int64 {
	n, _ := ParseFileSize(c.SplitSize)
	return n
}

// Level returns the parsed log level, info when it does not parse.
func (c *Config) Level() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// ParseFileSize converts a human readable size to bytes. It accepts the
// suffixes B, KB, MB and GB; the empty string and zero mean no limit.
//
//	ParseFileSize("10MB")  => 10485760, nil
//	ParseFileSize("")      => 0, nil
//	ParseFileSize("10XB")  => 0, error
func ParseFileSize(sizeStr string) (int64, error) {
	sizeStr = strings.ToUpper(strings.TrimSpace(sizeStr))
	if sizeStr == "" {
		return 0, nil
	}

	// longest suffixes first, so "MB" does not match as "B"
	suffixes := []struct {
		suffix     string
		multiplier int64
	}{
		{"GB", 1024 * 1024 * 1024},
		{"MB", 1024 * 1024},
		{"KB", 1024},
		{"B", 1},
	}
	for _, s := range suffixes {
		if !strings.HasSuffix(sizeStr, s.suffix) {
			continue
		}
		numStr := strings.TrimSpace(strings.TrimSuffix(sizeStr, s.suffix))
		num, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size format '%s': cannot parse number", sizeStr)
		}
		if num < 0 {
			return 0, fmt.Errorf("invalid size '%s': size cannot be negative", sizeStr)
		}
		result := num * s.multiplier
		if result < 0 || (num != 0 && result/num != s.multiplier) {
			return 0, fmt.Errorf("invalid size '%s': value too large", sizeStr)
		}
		return result, nil
	}
	return 0, fmt.Errorf("invalid size format '%s': must end with B, KB, MB, or GB", sizeStr)
}
