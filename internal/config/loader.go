package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const EnvPrefix = "TOPMOVIES"

type configDTO struct {
	ListURL                string        `mapstructure:"list_url" validate:"required,url"`
	BaseURL                string        `mapstructure:"base_url" validate:"required,url"`
	CacheFile              string        `mapstructure:"cache_file" validate:"required_if=NoCache false"`
	NoCache                bool          `mapstructure:"no_cache"`
	DBFile                 string        `mapstructure:"db_file" validate:"required"`
	HelpFile               string        `mapstructure:"help_file"`
	ChartDir               string        `mapstructure:"chart_dir" validate:"required"`
	OpenCharts             bool          `mapstructure:"open_charts"`
	PersonThreshold        int           `mapstructure:"person_threshold" validate:"gte=0"`
	UserAgent              string        `mapstructure:"user_agent" validate:"required"`
	Timeout                time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxAttempt             int           `mapstructure:"max_attempt" validate:"gte=1"`
	BackoffInitialDuration time.Duration `mapstructure:"backoff_initial_duration" validate:"gte=0"`
	BackoffMultiplier      float64       `mapstructure:"backoff_multiplier" validate:"gte=1"`
	BackoffMaxDuration     time.Duration `mapstructure:"backoff_max_duration" validate:"gte=0"`
	Jitter                 time.Duration `mapstructure:"jitter" validate:"gte=0"`
	RandomSeed             int64         `mapstructure:"random_seed"`
	LogLevel               string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// WithConfigFile loads a JSON, YAML or TOML file (chosen by extension),
// overlays TOPMOVIES_* environment variables and fills everything else
// with defaults.
func WithConfigFile(path string) (Config, error) {
	if _, err := os.Stat(path); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	return load(path)
}

// FromEnv builds a Config from defaults and TOPMOVIES_* environment variables.
func FromEnv() (Config, error) {
	return load("")
}

func load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, WithDefault())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var parseErr viper.ConfigParseError
			if errors.As(err, &parseErr) {
				return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
			}
			return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
		}
	}

	var dto configDTO
	if err := v.Unmarshal(&dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(dto)
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("list_url", d.listURL.String())
	v.SetDefault("base_url", d.baseURL.String())
	v.SetDefault("cache_file", d.cacheFile)
	v.SetDefault("no_cache", d.noCache)
	v.SetDefault("db_file", d.dbFile)
	v.SetDefault("help_file", d.helpFile)
	v.SetDefault("chart_dir", d.chartDir)
	v.SetDefault("open_charts", d.openCharts)
	v.SetDefault("person_threshold", d.personThreshold)
	v.SetDefault("user_agent", d.userAgent)
	v.SetDefault("timeout", d.timeout)
	v.SetDefault("max_attempt", d.maxAttempt)
	v.SetDefault("backoff_initial_duration", d.backoffInitialDuration)
	v.SetDefault("backoff_multiplier", d.backoffMultiplier)
	v.SetDefault("backoff_max_duration", d.backoffMaxDuration)
	v.SetDefault("jitter", d.jitter)
	v.SetDefault("random_seed", d.randomSeed)
	v.SetDefault("log_level", d.logLevel)
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	if err := validate.Struct(dto); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, describeValidation(err))
	}

	listURL, err := url.Parse(dto.ListURL)
	if err != nil {
		return Config{}, fmt.Errorf("%w: list_url: %s", ErrInvalidConfig, err.Error())
	}
	baseURL, err := url.Parse(dto.BaseURL)
	if err != nil {
		return Config{}, fmt.Errorf("%w: base_url: %s", ErrInvalidConfig, err.Error())
	}

	return WithDefault().
		WithListURL(*listURL).
		WithBaseURL(*baseURL).
		WithCacheFile(dto.CacheFile).
		WithNoCache(dto.NoCache).
		WithDBFile(dto.DBFile).
		WithHelpFile(dto.HelpFile).
		WithChartDir(dto.ChartDir).
		WithOpenCharts(dto.OpenCharts).
		WithPersonThreshold(dto.PersonThreshold).
		WithUserAgent(dto.UserAgent).
		WithTimeout(dto.Timeout).
		WithMaxAttempt(dto.MaxAttempt).
		WithBackoffInitialDuration(dto.BackoffInitialDuration).
		WithBackoffMultiplier(dto.BackoffMultiplier).
		WithBackoffMaxDuration(dto.BackoffMaxDuration).
		WithJitter(dto.Jitter).
		WithRandomSeed(dto.RandomSeed).
		WithLogLevel(dto.LogLevel).
		Build()
}

// describeValidation flattens validator failures into "Field failed on tag=param" parts.
func describeValidation(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		part := fe.Field() + " failed on " + fe.Tag()
		if fe.Param() != "" {
			part += "=" + fe.Param()
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}
