package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rohmanhakim/top-movies/internal/catalog"
	"github.com/rohmanhakim/top-movies/internal/launcher"
	"github.com/rohmanhakim/top-movies/internal/report"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

/*
Responsibilities
- Prompt for commands until the operator leaves
- Open movie pages and run reports on request

Input is matched in this order: help, exact movie name, report name
(any case), stats, exit. Anything else is reported and the loop goes on,
as does any failure to open a page or produce a report.
*/

const (
	Greeting     = "Find out more about top 250 movies of all time! Enter 'help' to see the options"
	Prompt       = "Enter a command: "
	Generating   = "Generating..."
	Farewell     = "Bye..."
	Unrecognized = "Command not recognized..."
)

const (
	cmdHelp  = "help"
	cmdStats = "stats"
	cmdExit  = "exit"
)

type MovieIndex interface {
	Lookup(name string) (catalog.MovieRecord, bool)
}

type Reporter interface {
	Generate(ctx context.Context, kind report.Kind) (report.Report, failure.ClassifiedError)
}

type StatsSource interface {
	Counts(ctx context.Context) ([]storage.TableCount, failure.ClassifiedError)
}

type Session struct {
	in       io.Reader
	out      io.Writer
	helpText string
	movies   MovieIndex
	reports  Reporter
	stats    StatsSource
	opener   launcher.Opener
}

func NewSession(
	in io.Reader,
	out io.Writer,
	helpText string,
	movies MovieIndex,
	reports Reporter,
	stats StatsSource,
	opener launcher.Opener,
) *Session {
	return &Session{
		in:       in,
		out:      out,
		helpText: helpText,
		movies:   movies,
		reports:  reports,
		stats:    stats,
		opener:   opener,
	}
}

type line struct {
	text string
	err  error
}

// Run reads commands until exit, end of input or ctx is done. Only a
// cancelled context or a failing output writer make it return an error.
func (s *Session) Run(ctx context.Context) error {
	lines := make(chan line)
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	go readLines(readCtx, s.in, lines)

	if err := s.println(Greeting); err != nil {
		return err
	}

	for {
		if _, err := fmt.Fprint(s.out, Prompt); err != nil {
			return err
		}

		var next line
		var open bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next, open = <-lines:
		}

		if !open {
			// end of input: leave as if exit was typed
			if err := s.println(""); err != nil {
				return err
			}
			return s.println(Farewell)
		}
		if next.err != nil {
			return fmt.Errorf("read command: %w", next.err)
		}

		done, err := s.dispatch(ctx, next.text)
		if err != nil {
			return err
		}
		if done {
			return nil
		}
	}
}

// dispatch handles one command and reports whether the session is over.
func (s *Session) dispatch(ctx context.Context, command string) (bool, error) {
	if command == cmdHelp {
		return false, s.println(s.helpText)
	}

	if movie, ok := s.movies.Lookup(command); ok {
		if err := s.opener.OpenURL(movie.Link); err != nil {
			return false, s.println(fmt.Sprintf("Could not open %s: %v", movie.Link, err))
		}
		return false, nil
	}

	if kind, ok := reportKind(command); ok {
		if err := s.println(Generating); err != nil {
			return false, err
		}
		if _, err := s.reports.Generate(ctx, kind); err != nil {
			return false, s.println(err.Error())
		}
		return false, nil
	}

	switch command {
	case cmdStats:
		return false, s.printStats(ctx)
	case cmdExit:
		return true, s.println(Farewell)
	}

	return false, s.println(Unrecognized)
}

// reportKind matches command against the report names ignoring case only;
// surrounding spaces make it unrecognized.
func reportKind(command string) (report.Kind, bool) {
	lower := strings.ToLower(command)
	for _, k := range report.Kinds() {
		if string(k) == lower {
			return k, true
		}
	}
	return "", false
}

func (s *Session) printStats(ctx context.Context) error {
	counts, err := s.stats.Counts(ctx)
	if err != nil {
		return s.println(err.Error())
	}
	for _, c := range counts {
		if _, err := fmt.Fprintf(s.out, "%-16s %d\n", c.Table, c.Rows); err != nil {
			return err
		}
	}
	return nil
}

func (s *Session) println(text string) error {
	_, err := fmt.Fprintln(s.out, text)
	return err
}

// readLines sends every line of in, without its line ending, then closes
// out. A read error other than EOF is sent before closing. It stops early
// once ctx is done, though a read already blocked on in stays blocked.
func readLines(ctx context.Context, in io.Reader, out chan<- line) {
	defer close(out)
	send := func(l line) bool {
		select {
		case out <- l:
			return true
		case <-ctx.Done():
			return false
		}
	}

	reader := bufio.NewReader(in)
	for {
		text, err := reader.ReadString('\n')
		if text != "" && !send(line{text: strings.TrimRight(text, "\r\n")}) {
			return
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				send(line{err: err})
			}
			return
		}
	}
}
