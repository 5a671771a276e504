// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all scraper knobs loaded via Viper.
type Config struct {
	Sources  SourcesConfig `mapstructure:"sources"`
	HTTP     HTTPConfig    `mapstructure:"http"`
	Photos   PhotosConfig  `mapstructure:"photos"`
	Output   OutputConfig  `mapstructure:"output"`
	Logging  LoggingConfig `mapstructure:"logging"`
	Progress int           `mapstructure:"progress_interval"`
}

// SourcesConfig holds the upstream endpoints for both chambers.
type SourcesConfig struct {
	Legislature    string `mapstructure:"legislature"`
	DeputyArchive  string `mapstructure:"deputy_archive_url"`
	DeputyAPI      string `mapstructure:"deputy_api_url"`
	DeputyPhoto    string `mapstructure:"deputy_photo_url"`
	DeputyPhotoOld string `mapstructure:"deputy_photo_legacy_url"`
	SenatorList    string `mapstructure:"senator_list_url"`
	SenatorData    string `mapstructure:"senator_data_url"`
	SenatorPhoto   string `mapstructure:"senator_photo_url"`
}

// HTTPConfig configures fetch timeouts and identification.
type HTTPConfig struct {
	UserAgent             string `mapstructure:"user_agent"`
	PageTimeoutSeconds    int    `mapstructure:"page_timeout_seconds"`
	ArchiveTimeoutSeconds int    `mapstructure:"archive_timeout_seconds"`
}

// PhotosConfig governs the portrait download loop.
type PhotosConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
	Retries        int `mapstructure:"retries"`
	RetryWaitMs    int `mapstructure:"retry_wait_ms"`
	MinBytes       int `mapstructure:"min_bytes"`
	PauseEvery     int `mapstructure:"pause_every"`
	PauseMs        int `mapstructure:"pause_ms"`
}

// OutputConfig sets the local destination directories.
type OutputConfig struct {
	DataDir   string `mapstructure:"data_dir"`
	PhotosDir string `mapstructure:"photos_dir"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCRAPER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sources.legislature", "17")
	v.SetDefault("sources.deputy_archive_url",
		"https://data.assemblee-nationale.fr/static/openData/repository/17/amo/deputes_actifs_mandats_actifs_organes/AMO10_deputes_actifs_mandats_actifs_organes.json.zip")
	v.SetDefault("sources.deputy_api_url",
		"https://www.nosdeputes.fr/deputes/enmandat/json")
	v.SetDefault("sources.deputy_photo_url",
		"https://www.assemblee-nationale.fr/dyn/static/tribun/17/photos/carre/%s.jpg")
	v.SetDefault("sources.deputy_photo_legacy_url",
		"https://www2.assemblee-nationale.fr/static/tribun/17/photos/%s.jpg")
	v.SetDefault("sources.senator_list_url", "https://www.senat.fr/senateurs/senatl.html")
	v.SetDefault("sources.senator_data_url", "https://data.senat.fr/data/senateurs/ODSEN_GENERAL.json")
	v.SetDefault("sources.senator_photo_url", "https://www.senat.fr/senimg/%s_carre.jpg")
	v.SetDefault("http.user_agent", "parl-scraper/1.0 (public parliament open data)")
	v.SetDefault("http.page_timeout_seconds", 30)
	v.SetDefault("http.archive_timeout_seconds", 60)
	v.SetDefault("photos.timeout_seconds", 15)
	v.SetDefault("photos.retries", 2)
	v.SetDefault("photos.retry_wait_ms", 500)
	v.SetDefault("photos.min_bytes", 500)
	v.SetDefault("photos.pause_every", 10)
	v.SetDefault("photos.pause_ms", 300)
	v.SetDefault("output.data_dir", "data")
	v.SetDefault("output.photos_dir", "photos")
	v.SetDefault("logging.development", true)
	v.SetDefault("progress_interval", 25)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.HTTP.PageTimeoutSeconds <= 0 {
		return fmt.Errorf("http.page_timeout_seconds must be > 0")
	}
	if c.HTTP.ArchiveTimeoutSeconds <= 0 {
		return fmt.Errorf("http.archive_timeout_seconds must be > 0")
	}
	if c.Photos.TimeoutSeconds <= 0 {
		return fmt.Errorf("photos.timeout_seconds must be > 0")
	}
	if c.Photos.Retries < 0 {
		return fmt.Errorf("photos.retries must be >= 0")
	}
	if c.Photos.MinBytes <= 0 {
		return fmt.Errorf("photos.min_bytes must be > 0")
	}
	if c.Sources.Legislature == "" {
		return fmt.Errorf("sources.legislature must be set")
	}
	if c.Output.DataDir == "" || c.Output.PhotosDir == "" {
		return fmt.Errorf("output directories must be set")
	}
	if c.Progress <= 0 {
		return fmt.Errorf("progress_interval must be > 0")
	}
	return nil
}

// PageTimeout returns the page/API fetch budget as a duration.
func (c Config) PageTimeout() time.Duration {
	return time.Duration(c.HTTP.PageTimeoutSeconds) * time.Second
}

// ArchiveTimeout returns the bulk archive fetch budget as a duration.
func (c Config) ArchiveTimeout() time.Duration {
	return time.Duration(c.HTTP.ArchiveTimeoutSeconds) * time.Second
}

// PhotoTimeout returns the per-attempt portrait fetch budget.
func (c Config) PhotoTimeout() time.Duration {
	return time.Duration(c.Photos.TimeoutSeconds) * time.Second
}

// RetryWait returns the fixed delay between portrait retry attempts.
func (c Config) RetryWait() time.Duration {
	return time.Duration(c.Photos.RetryWaitMs) * time.Millisecond
}

// Pause returns the courtesy pause inserted during bulk downloads.
func (c Config) Pause() time.Duration {
	return time.Duration(c.Photos.PauseMs) * time.Millisecond
}
