package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"syscall"
	"time"

	"github.com/rohmanhakim/top-movies/internal/cache"
	"github.com/rohmanhakim/top-movies/internal/catalog"
	"github.com/rohmanhakim/top-movies/internal/config"
	"github.com/rohmanhakim/top-movies/internal/console"
	"github.com/rohmanhakim/top-movies/internal/extractor"
	"github.com/rohmanhakim/top-movies/internal/fetcher"
	"github.com/rohmanhakim/top-movies/internal/launcher"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/report"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/rohmanhakim/top-movies/pkg/retry"
	"github.com/rohmanhakim/top-movies/pkg/timeutil"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Streams are the console's input and output and the way pages and
// charts reach the user.
type Streams struct {
	In     io.Reader
	Out    io.Writer
	Opener launcher.Opener
}

// RunPipeline builds the catalog, replaces the database contents with it
// and hands over to the console until the user leaves.
func RunPipeline(ctx context.Context, cfg config.Config, logger *zap.Logger, streams Streams) (err error) {
	recorder := metadata.NewRecorder(logger)
	start := time.Now()
	defer func() {
		err = multierr.Append(err, syncLogger(logger))
	}()

	pages := newPageSource(cfg, recorder, logger)

	listURL := cfg.ListURL()
	logger.Info("building catalog", zap.String("list_url", listURL.String()))
	builder := catalog.NewBuilder(
		pages,
		extractor.NewPageExtractor(recorder),
		listURL,
		cfg.BaseURL(),
		recorder,
	)
	cat, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	store, openErr := storage.Open(ctx, cfg.DBFile(), recorder)
	if openErr != nil {
		return openErr
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	if err := store.InitSchema(ctx); err != nil {
		return err
	}
	if err := store.InsertAll(ctx, cat); err != nil {
		return err
	}

	hits, fetches := pages.Stats()
	recorder.RecordFinalStats(metadata.RunStats{
		Movies:    cat.Len(),
		Fetches:   fetches,
		CacheHits: hits,
		Duration:  time.Since(start),
	})

	helpText, err := console.LoadHelp(cfg.HelpFile())
	if err != nil {
		return err
	}

	session := console.NewSession(
		streams.In,
		streams.Out,
		helpText,
		cat,
		newGenerator(cfg, store, recorder, streams),
		store,
		streams.Opener,
	)
	return session.Run(ctx)
}

func newPageSource(cfg config.Config, recorder *metadata.Recorder, logger *zap.Logger) *cache.CachingFetcher {
	var pageCache cache.Cache
	if cfg.NoCache() {
		pageCache = cache.NewMemoryCache()
	} else {
		fileCache, loadErr := cache.LoadFileCache(cfg.CacheFile(), recorder)
		if loadErr != nil {
			logger.Debug("starting with an empty cache", zap.Error(loadErr))
		}
		pageCache = fileCache
	}

	backoff := timeutil.NewBackoffParam(
		cfg.BackoffInitialDuration(),
		cfg.BackoffMultiplier(),
		cfg.BackoffMaxDuration(),
	)
	retryParam := retry.NewRetryParam(cfg.Jitter(), cfg.RandomSeed(), cfg.MaxAttempt(), backoff)

	return cache.NewCachingFetcher(
		pageCache,
		fetcher.NewHtmlFetcher(recorder, nil, cfg.Timeout()),
		cfg.UserAgent(),
		retryParam,
		recorder,
	)
}

func newGenerator(cfg config.Config, source report.Source, recorder *metadata.Recorder, streams Streams) *report.Generator {
	var chartOpener launcher.Opener
	if cfg.OpenCharts() {
		chartOpener = streams.Opener
	}
	return report.NewGenerator(
		source,
		cfg.PersonThreshold(),
		recorder,
		report.NewChartRenderer(cfg.ChartDir(), chartOpener, recorder),
		report.NewTableRenderer(streams.Out, recorder),
	)
}

// syncLogger flushes logger. Syncing a terminal or pipe fails with EINVAL
// or ENOTTY on some platforms; that is not worth reporting.
func syncLogger(logger *zap.Logger) error {
	err := logger.Sync()
	if err == nil || errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) {
		return nil
	}
	return fmt.Errorf("sync logger: %w", err)
}
