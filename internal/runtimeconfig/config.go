package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/goliatone/go-agency/internal/locale"
)

var ErrStorageProviderUnknown = errors.New("agency config: storage provider is invalid")
var ErrStorageDSNRequired = errors.New("agency config: storage dsn is required")
var ErrCacheTTLInvalid = errors.New("agency config: cache ttl must be positive when cache is enabled")
var ErrLoggingProviderUnknown = errors.New("agency config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("agency config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("agency config: logging format is invalid")
var ErrSiteAddressRequired = errors.New("agency config: site address is required")
var ErrSlugModeInvalid = errors.New("agency config: slug mode is invalid")
var ErrSlugPageSizeInvalid = errors.New("agency config: slug page size must be positive")

// Config aggregates everything the CLI and the site need at startup.
// Values come from DefaultConfig, then an optional YAML file, then AGENCY_*
// environment variables.
type Config struct {
	Locales LocaleConfig  `yaml:"locales"`
	Storage StorageConfig `yaml:"storage"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
	Site    SiteConfig    `yaml:"site"`
	Slugs   SlugConfig    `yaml:"slugs"`
}

// LocaleConfig lists the supported locales and the fallback.
type LocaleConfig struct {
	Default   string   `yaml:"default" env:"AGENCY_DEFAULT_LOCALE"`
	Supported []string `yaml:"supported" env:"AGENCY_LOCALES" env-separator:","`
}

// StorageConfig selects the database backing the content store.
type StorageConfig struct {
	Provider string `yaml:"provider" env:"AGENCY_STORAGE_PROVIDER"`
	DSN      string `yaml:"dsn" env:"AGENCY_STORAGE_DSN"`
}

// CacheConfig toggles the catalog read cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" env:"AGENCY_CACHE_ENABLED"`
	TTL     time.Duration `yaml:"ttl" env:"AGENCY_CACHE_TTL"`
}

// LoggingConfig configures the go-logger provider.
type LoggingConfig struct {
	Provider  string   `yaml:"provider" env:"AGENCY_LOG_PROVIDER"`
	Level     string   `yaml:"level" env:"AGENCY_LOG_LEVEL"`
	Format    string   `yaml:"format" env:"AGENCY_LOG_FORMAT"`
	AddSource bool     `yaml:"add_source" env:"AGENCY_LOG_ADD_SOURCE"`
	Focus     []string `yaml:"focus" env:"AGENCY_LOG_FOCUS" env-separator:","`
}

// SiteConfig configures the public HTTP server.
type SiteConfig struct {
	Address         string        `yaml:"address" env:"AGENCY_SITE_ADDRESS"`
	BaseURL         string        `yaml:"base_url" env:"AGENCY_SITE_BASE_URL"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"AGENCY_SITE_READ_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"AGENCY_SITE_SHUTDOWN_TIMEOUT"`
}

// SlugConfig configures the slug backfill.
type SlugConfig struct {
	Mode     string `yaml:"mode" env:"AGENCY_SLUG_MODE"`
	PageSize int    `yaml:"page_size" env:"AGENCY_SLUG_PAGE_SIZE"`
}

// DefaultConfig is a German-first site on a local sqlite file.
func DefaultConfig() Config {
	return Config{
		Locales: LocaleConfig{
			Default:   string(locale.German),
			Supported: []string{string(locale.German), string(locale.English)},
		},
		Storage: StorageConfig{
			Provider: "sqlite",
			DSN:      "file:agency.db?cache=shared&_fk=1",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Minute,
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		Site: SiteConfig{
			Address:         ":8080",
			ReadTimeout:     15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Slugs: SlugConfig{
			Mode:     "strict",
			PageSize: 100,
		},
	}
}

// Load starts from DefaultConfig, applies the YAML file at path when given,
// applies environment overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	var err error
	if strings.TrimSpace(path) != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("agency config: load: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LocaleSet builds the validated locale set.
func (cfg Config) LocaleSet() (locale.Set, error) {
	return locale.NewSet(strings.TrimSpace(cfg.Locales.Default), cfg.Locales.Supported...)
}

func (cfg Config) Validate() error {
	if _, err := cfg.LocaleSet(); err != nil {
		return err
	}
	switch normalize(cfg.Storage.Provider) {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if strings.TrimSpace(cfg.Storage.DSN) == "" {
		return ErrStorageDSNRequired
	}
	if cfg.Cache.Enabled && cfg.Cache.TTL <= 0 {
		return ErrCacheTTLInvalid
	}
	if err := cfg.Logging.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.Site.Address) == "" {
		return ErrSiteAddressRequired
	}
	switch normalize(cfg.Slugs.Mode) {
	case "", "strict", "transliterate":
	default:
		return fmt.Errorf("%w: %s", ErrSlugModeInvalid, cfg.Slugs.Mode)
	}
	if cfg.Slugs.PageSize <= 0 {
		return ErrSlugPageSizeInvalid
	}
	return nil
}

func (l LoggingConfig) validate() error {
	provider := normalize(l.Provider)
	switch provider {
	case "", "none", "gologger":
	default:
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if provider != "gologger" {
		return nil
	}
	if level := strings.TrimSpace(l.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(l.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
