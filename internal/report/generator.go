package report

import (
	"context"
	"time"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

/*
Responsibilities
- Run the query behind a view
- Hand the result to every renderer

Nothing is cached: asking for the same view twice queries and renders twice.
*/

// Source answers the grouped-count queries. *storage.Store implements it.
type Source interface {
	RatedCounts(ctx context.Context) ([]storage.Bucket, failure.ClassifiedError)
	YearCounts(ctx context.Context) ([]storage.Bucket, failure.ClassifiedError)
	DirectorCounts(ctx context.Context, threshold int) ([]storage.Bucket, failure.ClassifiedError)
	ActorCounts(ctx context.Context, threshold int) ([]storage.Bucket, failure.ClassifiedError)
	GenreCounts(ctx context.Context) ([]storage.Bucket, failure.ClassifiedError)
}

var _ Source = (*storage.Store)(nil)

type Renderer interface {
	Render(ctx context.Context, r Report) failure.ClassifiedError
}

type Generator struct {
	source       Source
	threshold    int
	renderers    []Renderer
	metadataSink metadata.MetadataSink
}

// NewGenerator returns a Generator that keeps people appearing in more
// than threshold movies in the director and actor views.
func NewGenerator(
	source Source,
	threshold int,
	metadataSink metadata.MetadataSink,
	renderers ...Renderer,
) *Generator {
	return &Generator{
		source:       source,
		threshold:    threshold,
		renderers:    renderers,
		metadataSink: metadataSink,
	}
}

// Generate queries kind and renders it. Renderers run in order and the
// first failure stops the rest.
func (g *Generator) Generate(ctx context.Context, kind Kind) (Report, failure.ClassifiedError) {
	parsed, ok := ParseKind(string(kind))
	if !ok {
		return Report{}, g.fail(&ReportError{
			Message: "no such view",
			Cause:   ErrCauseUnknownKind,
			Kind:    kind,
		})
	}
	kind = parsed

	buckets, err := g.query(ctx, kind)
	if err != nil {
		return Report{}, g.fail(&ReportError{
			Message: "could not query",
			Cause:   ErrCauseQueryFailure,
			Kind:    kind,
			Err:     err,
		})
	}

	title, label := describe(kind, g.threshold)
	r := Report{
		Kind:    kind,
		Title:   title,
		Label:   label,
		Buckets: buckets,
	}

	for _, renderer := range g.renderers {
		if err := renderer.Render(ctx, r); err != nil {
			return r, err
		}
	}
	return r, nil
}

func (g *Generator) query(ctx context.Context, kind Kind) ([]storage.Bucket, failure.ClassifiedError) {
	var (
		buckets []storage.Bucket
		err     failure.ClassifiedError
	)
	switch kind {
	case KindRated:
		buckets, err = g.source.RatedCounts(ctx)
	case KindYear:
		buckets, err = g.source.YearCounts(ctx)
	case KindDirector:
		buckets, err = g.source.DirectorCounts(ctx, g.threshold)
	case KindActor:
		buckets, err = g.source.ActorCounts(ctx, g.threshold)
	case KindGenre:
		buckets, err = g.source.GenreCounts(ctx)
	}
	if err != nil {
		return nil, err
	}
	return buckets, nil
}

func (g *Generator) fail(err *ReportError) *ReportError {
	recordReportError(g.metadataSink, "Generator.Generate", err)
	return err
}

func recordReportError(sink metadata.MetadataSink, action string, err *ReportError) {
	sink.RecordError(
		time.Now(),
		"report",
		action,
		mapReportErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrReport, string(err.Kind)),
		},
	)
}
