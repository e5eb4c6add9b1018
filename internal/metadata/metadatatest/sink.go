// Package metadatatest provides a recording metadata sink for tests.
package metadatatest

import (
	"sync"
	"time"

	"github.com/rohmanhakim/top-movies/internal/metadata"
)

type FetchEvent struct {
	URL         string
	HTTPStatus  int
	Duration    time.Duration
	ContentType string
	Attempts    int
}

type ErrorEvent struct {
	ObservedAt  time.Time
	PackageName string
	Action      string
	Cause       metadata.ErrorCause
	Details     string
	Attrs       []metadata.Attribute
}

type ArtifactEvent struct {
	Kind  metadata.ArtifactKind
	Path  string
	Attrs []metadata.Attribute
}

// Sink records every event it receives. Safe for concurrent use.
type Sink struct {
	mu        sync.Mutex
	fetches   []FetchEvent
	errors    []ErrorEvent
	cacheHits []string
	artifacts []ArtifactEvent
	stats     []metadata.RunStats
}

func (s *Sink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause metadata.ErrorCause,
	details string,
	attrs []metadata.Attribute,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, ErrorEvent{
		ObservedAt:  observedAt,
		PackageName: packageName,
		Action:      action,
		Cause:       cause,
		Details:     details,
		Attrs:       attrs,
	})
}

func (s *Sink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	contentType string,
	attempts int,
) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetches = append(s.fetches, FetchEvent{
		URL:         fetchUrl,
		HTTPStatus:  httpStatus,
		Duration:    duration,
		ContentType: contentType,
		Attempts:    attempts,
	})
}

func (s *Sink) RecordCacheHit(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheHits = append(s.cacheHits, key)
}

func (s *Sink) RecordArtifact(kind metadata.ArtifactKind, path string, attrs []metadata.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts = append(s.artifacts, ArtifactEvent{Kind: kind, Path: path, Attrs: attrs})
}

func (s *Sink) RecordFinalStats(stats metadata.RunStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats = append(s.stats, stats)
}

func (s *Sink) Fetches() []FetchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]FetchEvent(nil), s.fetches...)
}

func (s *Sink) Errors() []ErrorEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ErrorEvent(nil), s.errors...)
}

func (s *Sink) CacheHits() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.cacheHits...)
}

func (s *Sink) Artifacts() []ArtifactEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ArtifactEvent(nil), s.artifacts...)
}

func (s *Sink) Stats() []metadata.RunStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]metadata.RunStats(nil), s.stats...)
}

// AttrValue returns the value of the first attribute with key, or "".
func AttrValue(attrs []metadata.Attribute, key metadata.AttributeKey) string {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}
