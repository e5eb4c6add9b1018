package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/rohmanhakim/top-movies/internal/build"
)

const (
	DefaultListURL = "https://www.imdb.com/chart/top?ref_=nv_mv_250"
	DefaultBaseURL = "https://www.imdb.com"
)

type Config struct {
	//===============
	//  Source
	//===============
	// Chart page listing the ranked movies
	listURL url.URL
	// Site root that relative detail links are resolved against
	baseURL url.URL

	//===============
	// Persistence
	//===============
	// JSON file mapping fetched URL to page body
	cacheFile string
	// Keep the fetch cache in memory only
	noCache bool
	// SQLite database file, recreated on every run
	dbFile string

	//===============
	// Console & reports
	//===============
	// Optional file replacing the built-in help text
	helpFile string
	// Directory that receives rendered chart pages
	chartDir string
	// Whether rendered charts are opened in the default browser
	openCharts bool
	// Directors/actors must appear more than this many times to be reported
	personThreshold int

	//===============
	// Fetch
	//===============
	// User agent sent in the request header
	userAgent string
	// Maximum time of a single fetch request
	timeout time.Duration
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff
	backoffMaxDuration time.Duration
	// Randomized variation added on top of each backoff
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64

	//===============
	// Logging
	//===============
	logLevel string
}

// WithDefault creates a Config pointing at the IMDb Top 250 chart with
// default values for every other field.
func WithDefault() *Config {
	listURL, _ := url.Parse(DefaultListURL)
	baseURL, _ := url.Parse(DefaultBaseURL)
	defaultConfig := Config{
		listURL:                *listURL,
		baseURL:                *baseURL,
		cacheFile:              "movies.json",
		noCache:                false,
		dbFile:                 "movie_imdb.db",
		helpFile:               "",
		chartDir:               "charts",
		openCharts:             true,
		personThreshold:        2,
		userAgent:              build.UserAgent(),
		timeout:                30 * time.Second,
		maxAttempt:             3,
		backoffInitialDuration: 500 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		jitter:                 250 * time.Millisecond,
		randomSeed:             time.Now().UnixNano(),
		logLevel:               "info",
	}
	return &defaultConfig
}

func (c *Config) WithListURL(u url.URL) *Config {
	c.listURL = u
	return c
}

func (c *Config) WithBaseURL(u url.URL) *Config {
	c.baseURL = u
	return c
}

func (c *Config) WithCacheFile(path string) *Config {
	c.cacheFile = path
	return c
}

func (c *Config) WithNoCache(noCache bool) *Config {
	c.noCache = noCache
	return c
}

func (c *Config) WithDBFile(path string) *Config {
	c.dbFile = path
	return c
}

func (c *Config) WithHelpFile(path string) *Config {
	c.helpFile = path
	return c
}

func (c *Config) WithChartDir(dir string) *Config {
	c.chartDir = dir
	return c
}

func (c *Config) WithOpenCharts(open bool) *Config {
	c.openCharts = open
	return c
}

func (c *Config) WithPersonThreshold(threshold int) *Config {
	c.personThreshold = threshold
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

// Build checks the invariants that setters cannot enforce on their own.
func (c *Config) Build() (Config, error) {
	if c.listURL.String() == "" || !c.listURL.IsAbs() {
		return Config{}, fmt.Errorf("%w: listURL must be an absolute URL", ErrInvalidConfig)
	}
	if !c.baseURL.IsAbs() {
		return Config{}, fmt.Errorf("%w: baseURL must be an absolute URL", ErrInvalidConfig)
	}
	if c.dbFile == "" {
		return Config{}, fmt.Errorf("%w: dbFile cannot be empty", ErrInvalidConfig)
	}
	if c.cacheFile == "" && !c.noCache {
		return Config{}, fmt.Errorf("%w: cacheFile cannot be empty unless noCache is set", ErrInvalidConfig)
	}
	if c.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: maxAttempt must be at least 1", ErrInvalidConfig)
	}
	if c.personThreshold < 0 {
		return Config{}, fmt.Errorf("%w: personThreshold cannot be negative", ErrInvalidConfig)
	}
	return *c, nil
}

func (c Config) ListURL() url.URL {
	return c.listURL
}

func (c Config) BaseURL() url.URL {
	return c.baseURL
}

func (c Config) CacheFile() string {
	return c.cacheFile
}

func (c Config) NoCache() bool {
	return c.noCache
}

func (c Config) DBFile() string {
	return c.dbFile
}

func (c Config) HelpFile() string {
	return c.helpFile
}

func (c Config) ChartDir() string {
	return c.chartDir
}

func (c Config) OpenCharts() bool {
	return c.openCharts
}

func (c Config) PersonThreshold() int {
	return c.personThreshold
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) LogLevel() string {
	return c.logLevel
}
