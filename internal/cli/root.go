package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/rohmanhakim/top-movies/internal/config"
	"github.com/rohmanhakim/top-movies/internal/launcher"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/spf13/cobra"
)

var (
	cfgFile                string
	listURL                string
	baseURL                string
	cacheFile              string
	noCache                bool
	dbFile                 string
	helpFile               string
	chartDir               string
	noOpen                 bool
	personThreshold        int
	userAgent              string
	timeout                time.Duration
	maxAttempt             int
	backoffInitialDuration time.Duration
	backoffMultiplier      float64
	backoffMaxDuration     time.Duration
	jitter                 time.Duration
	randomSeed             int64
	logLevel               string
	devLog                 bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "top-movies",
	Short: "Scrape the IMDb Top 250 and explore it from a console.",
	Long: `top-movies downloads the IMDb Top 250 chart and every movie page on it,
stores movies, directors and cast in a SQLite database, then opens an
interactive console for visiting a movie's page or charting the collection
by content rating, release year, director, actor and genre.

Pages are cached in a JSON file so later runs work offline.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := InitConfigWithError()
		if err != nil {
			return err
		}

		logger, err := metadata.NewLogger(cfg.LogLevel(), devLog)
		if err != nil {
			return fmt.Errorf("build logger: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		recorder := metadata.NewRecorder(logger)
		err = RunPipeline(ctx, cfg, logger, Streams{
			In:     cmd.InOrStdin(),
			Out:    cmd.OutOrStdout(),
			Opener: launcher.NewBrowserOpener(recorder, nil),
		})
		// interrupted from the keyboard: leave quietly
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return nil
		}
		return err
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (JSON, YAML or TOML)")
	rootCmd.PersistentFlags().StringVar(&listURL, "list-url", "", "chart page to scrape (default "+config.DefaultListURL+")")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "site root movie links are resolved against (default "+config.DefaultBaseURL+")")
	rootCmd.PersistentFlags().StringVar(&cacheFile, "cache-file", "", "JSON page cache (default movies.json)")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "keep fetched pages in memory only")
	rootCmd.PersistentFlags().StringVar(&dbFile, "db-file", "", "SQLite database file (default movie_imdb.db)")
	rootCmd.PersistentFlags().StringVar(&helpFile, "help-file", "", "text printed by the console help command (default built-in)")
	rootCmd.PersistentFlags().StringVar(&chartDir, "chart-dir", "", "directory charts are written to (default charts)")
	rootCmd.PersistentFlags().BoolVar(&noOpen, "no-open", false, "write charts without opening them in the browser")
	rootCmd.PersistentFlags().IntVar(&personThreshold, "person-threshold", -1, "directors and actors need more than this many movies to be charted (default 2)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "attempts per page before giving up")
	rootCmd.PersistentFlags().DurationVar(&backoffInitialDuration, "backoff-initial", 0, "delay before the first retry")
	rootCmd.PersistentFlags().Float64Var(&backoffMultiplier, "backoff-multiplier", 0, "growth factor between retry delays")
	rootCmd.PersistentFlags().DurationVar(&backoffMaxDuration, "backoff-max", 0, "upper bound of a retry delay")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to retry delays")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&devLog, "dev-log", false, "human-readable log lines instead of JSON")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(versionCmd)
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError loads the config file when one is given, otherwise
// defaults and TOPMOVIES_* environment variables, then lets every flag
// that was set override the result.
func InitConfigWithError() (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
	} else {
		cfg, err = config.FromEnv()
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from environment: %w", err)
		}
	}

	configBuilder := &cfg

	if listURL != "" {
		u, err := parseURL("list-url", listURL)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithListURL(u)
	}

	if baseURL != "" {
		u, err := parseURL("base-url", baseURL)
		if err != nil {
			return config.Config{}, err
		}
		configBuilder = configBuilder.WithBaseURL(u)
	}

	if cacheFile != "" {
		configBuilder = configBuilder.WithCacheFile(cacheFile)
	}

	if noCache {
		configBuilder = configBuilder.WithNoCache(true)
	}

	if dbFile != "" {
		configBuilder = configBuilder.WithDBFile(dbFile)
	}

	if helpFile != "" {
		configBuilder = configBuilder.WithHelpFile(helpFile)
	}

	if chartDir != "" {
		configBuilder = configBuilder.WithChartDir(chartDir)
	}

	if noOpen {
		configBuilder = configBuilder.WithOpenCharts(false)
	}

	if personThreshold >= 0 {
		configBuilder = configBuilder.WithPersonThreshold(personThreshold)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	if backoffInitialDuration > 0 {
		configBuilder = configBuilder.WithBackoffInitialDuration(backoffInitialDuration)
	}

	if backoffMultiplier > 0 {
		configBuilder = configBuilder.WithBackoffMultiplier(backoffMultiplier)
	}

	if backoffMaxDuration > 0 {
		configBuilder = configBuilder.WithBackoffMaxDuration(backoffMaxDuration)
	}

	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	return configBuilder.Build()
}

func parseURL(flag string, raw string) (url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return url.URL{}, fmt.Errorf("%w: --%s: %s", config.ErrInvalidConfig, flag, err.Error())
	}
	return *u, nil
}

func ResetFlags() {
	cfgFile = ""
	listURL = ""
	baseURL = ""
	cacheFile = ""
	noCache = false
	dbFile = ""
	helpFile = ""
	chartDir = ""
	noOpen = false
	personThreshold = -1
	userAgent = ""
	timeout = 0
	maxAttempt = 0
	backoffInitialDuration = 0
	backoffMultiplier = 0
	backoffMaxDuration = 0
	jitter = 0
	randomSeed = 0
	logLevel = ""
	devLog = false
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetListURLForTest(raw string) {
	listURL = raw
}

func SetBaseURLForTest(raw string) {
	baseURL = raw
}

func SetCacheFileForTest(path string) {
	cacheFile = path
}

func SetNoCacheForTest(disabled bool) {
	noCache = disabled
}

func SetDBFileForTest(path string) {
	dbFile = path
}

func SetHelpFileForTest(path string) {
	helpFile = path
}

func SetChartDirForTest(dir string) {
	chartDir = dir
}

func SetNoOpenForTest(disabled bool) {
	noOpen = disabled
}

func SetPersonThresholdForTest(threshold int) {
	personThreshold = threshold
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}

func SetBackoffForTest(initial time.Duration, multiplier float64, maxDuration time.Duration) {
	backoffInitialDuration = initial
	backoffMultiplier = multiplier
	backoffMaxDuration = maxDuration
}

func SetJitterForTest(j time.Duration) {
	jitter = j
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}

func SetLogLevelForTest(level string) {
	logLevel = level
}
