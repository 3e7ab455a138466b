// Package config loads and validates crawler configuration via Viper.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/JakeFAU/court-directory-crawler/internal/crawler"
	"github.com/JakeFAU/court-directory-crawler/internal/extract"
	"github.com/JakeFAU/court-directory-crawler/internal/names"
)

// EnvPrefix prefixes every environment override, e.g. COURTS_CRAWLER_DELAY.
const EnvPrefix = "COURTS"

// Output providers.
const (
	ProviderLocal = "local"
	ProviderGCS   = "gcs"
)

// Config captures all crawler configuration knobs loaded via Viper.
type Config struct {
	Crawler   CrawlerConfig   `mapstructure:"crawler"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Names     NamesConfig     `mapstructure:"names"`
	Sources   []SourceConfig  `mapstructure:"sources" validate:"dive"`
	Output    OutputConfig    `mapstructure:"output"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// CrawlerConfig governs the crawl loop.
type CrawlerConfig struct {
	UserAgent     string        `mapstructure:"user_agent" validate:"required"`
	Delay         time.Duration `mapstructure:"delay" validate:"gte=0"`
	SourceURLs    []string      `mapstructure:"source_urls" validate:"dive,url"`
	RespectRobots bool          `mapstructure:"respect_robots"`
}

// HTTPConfig configures the HTTP client.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// DiscoveryConfig controls source URL discovery from an index page.
type DiscoveryConfig struct {
	IndexURL string   `mapstructure:"index_url" validate:"omitempty,url"`
	Patterns []string `mapstructure:"patterns"`
	SiteRoot string   `mapstructure:"site_root" validate:"omitempty,url"`
}

// NamesConfig holds the default name filter.
type NamesConfig struct {
	Suffixes   []string `mapstructure:"suffixes"`
	Exclusions []string `mapstructure:"exclusions"`
}

// SourceConfig overrides extraction for URLs containing Match.
type SourceConfig struct {
	Match       string   `mapstructure:"match" validate:"required"`
	Strategy    string   `mapstructure:"strategy" validate:"omitempty,oneof=anchor_title_or_text anchor_text table_cell"`
	Suffixes    []string `mapstructure:"suffixes"`
	RowSelector string   `mapstructure:"row_selector"`
}

// OutputConfig selects where result files are written.
type OutputConfig struct {
	Provider  string `mapstructure:"provider" validate:"oneof=local gcs"`
	Dir       string `mapstructure:"dir"`
	GCSBucket string `mapstructure:"gcs_bucket"`
	Prefix    string `mapstructure:"prefix"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// MetricsConfig enables the Prometheus endpoint when Addr is set.
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load builds a Config from defaults, an optional file, .env and the
// environment, in increasing precedence.
func Load(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
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

// loadDotEnv loads path into the process environment when it exists.
// Variables already set win.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("crawler.user_agent", "court-directory-crawler/1.0")
	v.SetDefault("crawler.delay", crawler.DefaultDelay)
	v.SetDefault("crawler.source_urls", []string{})
	v.SetDefault("crawler.respect_robots", false)
	v.SetDefault("http.timeout", 15*time.Second)
	v.SetDefault("discovery.index_url", "")
	v.SetDefault("discovery.patterns", []string{"/courthouse/", "/saiban/"})
	v.SetDefault("discovery.site_root", "")
	v.SetDefault("names.suffixes", names.DefaultSuffixes)
	v.SetDefault("names.exclusions", names.DefaultExclusions)
	v.SetDefault("output.provider", ProviderLocal)
	v.SetDefault("output.dir", "out")
	v.SetDefault("output.gcs_bucket", "")
	v.SetDefault("output.prefix", "")
	v.SetDefault("logging.development", true)
	v.SetDefault("metrics.addr", "")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report keys the way they are written in config files.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return val
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				key := strings.TrimPrefix(fe.Namespace(), "Config.")
				msgs = append(msgs, fmt.Sprintf("%s failed %q", key, fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Output.Provider == ProviderGCS && strings.TrimSpace(c.Output.GCSBucket) == "" {
		return fmt.Errorf("output.gcs_bucket must be set when output.provider is gcs")
	}
	if c.Output.Provider == ProviderLocal && strings.TrimSpace(c.Output.Dir) == "" {
		return fmt.Errorf("output.dir must be set when output.provider is local")
	}
	if c.Discovery.IndexURL != "" && len(c.Discovery.Patterns) == 0 {
		return fmt.Errorf("discovery.patterns must be set when discovery.index_url is set")
	}
	return nil
}

// FallbackProfile is the extraction profile for URLs no source matches.
func (c Config) FallbackProfile() crawler.SourceProfile {
	p := crawler.DefaultProfile()
	if len(c.Names.Suffixes) > 0 {
		p.Suffixes = append([]string(nil), c.Names.Suffixes...)
	}
	return p
}

// Profiles converts the configured sources to crawler profiles.
func (c Config) Profiles() []crawler.SourceProfile {
	out := make([]crawler.SourceProfile, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, crawler.SourceProfile{
			Match:       s.Match,
			Strategy:    extract.Strategy(s.Strategy),
			Suffixes:    append([]string(nil), s.Suffixes...),
			RowSelector: s.RowSelector,
		})
	}
	return out
}

// Registry builds the source registry from the configured profiles.
func (c Config) Registry() (*crawler.Registry, error) {
	reg, err := crawler.NewRegistry(c.FallbackProfile(), c.Profiles())
	if err != nil {
		return nil, fmt.Errorf("build source registry: %w", err)
	}
	return reg, nil
}

// EngineConfig derives the crawl engine settings.
func (c Config) EngineConfig() crawler.Config {
	return crawler.Config{
		Delay:      c.Crawler.Delay,
		Exclusions: append([]string(nil), c.Names.Exclusions...),
	}
}
