package metadata

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

/*
Recorder turns pipeline events into structured log lines.
It must not:
  - perform I/O decisions
  - affect control flow

Metadata is write-only. No component reads it back to make decisions.
*/
type Recorder struct {
	logger *zap.Logger
	runID  string
}

// NewRecorder wraps logger and tags every event with a fresh run id.
func NewRecorder(logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	runID := uuid.NewString()
	return &Recorder{
		logger: logger.With(zap.String("run_id", runID)),
		runID:  runID,
	}
}

func (r *Recorder) RunID() string {
	return r.runID
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	fields := []zap.Field{
		zap.Time("observed_at", observedAt),
		zap.String("package", packageName),
		zap.String("action", action),
		zap.Stringer("cause", cause),
		zap.String("details", details),
	}
	r.logger.Error("pipeline error", append(fields, attrFields(attrs)...)...)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	attempts int,
) {
	r.logger.Info("fetch",
		zap.String("url", fetchUrl),
		zap.Int("http_status", httpStatus),
		zap.Duration("duration", duration),
		zap.String("content_type", contentType),
		zap.Int("attempts", attempts),
	)
}

func (r *Recorder) RecordCacheHit(key string) {
	r.logger.Debug("cache hit", zap.String("url", key))
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("path", path),
	}
	r.logger.Info("artifact", append(fields, attrFields(attrs)...)...)
}

/*
RecordFinalStats records the terminal summary of a run.
It MUST be called at most once, after the catalog is persisted.
*/
func (r *Recorder) RecordFinalStats(stats RunStats) {
	r.logger.Info("run finished",
		zap.Int("movies", stats.Movies),
		zap.Int("fetches", stats.Fetches),
		zap.Int("cache_hits", stats.CacheHits),
		zap.Int64("duration_ms", stats.Duration.Milliseconds()),
	)
}

func attrFields(attrs []Attribute) []zap.Field {
	fields := make([]zap.Field, 0, len(attrs))
	for _, a := range attrs {
		fields = append(fields, zap.String(string(a.Key), a.Value))
	}
	return fields
}

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)
	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		contentType string,
		attempts int,
	)
	RecordCacheHit(key string)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

type RunFinalizer interface {
	RecordFinalStats(stats RunStats)
}

// NoopSink implements MetadataSink and RunFinalizer and drops everything.
// Tests inject it where observability is irrelevant.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	attempts int,
) {
}

func (n *NoopSink) RecordCacheHit(key string) {}

func (n *NoopSink) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {}

func (n *NoopSink) RecordFinalStats(stats RunStats) {}
