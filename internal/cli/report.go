package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/rohmanhakim/top-movies/internal/config"
	"github.com/rohmanhakim/top-movies/internal/launcher"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/report"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var reportCmd = &cobra.Command{
	Use:   "report <" + strings.Join(kindNames(), "|") + ">",
	Short: "Render one chart from the database of a previous run.",
	Long: `report renders a single view from the existing database without
scraping anything and without starting the console. The chart is written to
the chart directory and the same numbers are printed as a Markdown table.`,
	Args:         cobra.ExactArgs(1),
	ValidArgs:    kindNames(),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, ok := report.ParseKind(args[0])
		if !ok {
			return fmt.Errorf("unknown report %q, expected one of %s", args[0], strings.Join(kindNames(), ", "))
		}

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
		return RunReport(ctx, cfg, logger, kind, cmd.OutOrStdout(), launcher.NewBrowserOpener(recorder, nil))
	},
}

// RunReport renders kind from the database at cfg.DBFile(). The database
// is expected to hold the result of an earlier full run.
func RunReport(
	ctx context.Context,
	cfg config.Config,
	logger *zap.Logger,
	kind report.Kind,
	out io.Writer,
	opener launcher.Opener,
) (err error) {
	recorder := metadata.NewRecorder(logger)
	defer func() {
		err = multierr.Append(err, syncLogger(logger))
	}()

	if _, statErr := os.Stat(cfg.DBFile()); statErr != nil {
		return fmt.Errorf("no database at %s, run top-movies first: %w", cfg.DBFile(), statErr)
	}

	store, openErr := storage.Open(ctx, cfg.DBFile(), recorder)
	if openErr != nil {
		return openErr
	}
	defer func() {
		err = multierr.Append(err, store.Close())
	}()

	generator := newGenerator(cfg, store, recorder, Streams{Out: out, Opener: opener})
	if _, genErr := generator.Generate(ctx, kind); genErr != nil {
		return genErr
	}
	return nil
}

func kindNames() []string {
	kinds := report.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return names
}
