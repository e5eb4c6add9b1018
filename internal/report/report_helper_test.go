package report_test

import (
	"context"
	"sync"

	"github.com/rohmanhakim/top-movies/internal/report"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

// sourceStub answers every query with canned buckets and records which
// query ran and with what threshold.
type sourceStub struct {
	buckets   []storage.Bucket
	err       failure.ClassifiedError
	calls     []string
	threshold int
}

func (s *sourceStub) RatedCounts(context.Context) ([]storage.Bucket, failure.ClassifiedError) {
	return s.answer("rated", 0)
}

func (s *sourceStub) YearCounts(context.Context) ([]storage.Bucket, failure.ClassifiedError) {
	return s.answer("year", 0)
}

func (s *sourceStub) DirectorCounts(_ context.Context, threshold int) ([]storage.Bucket, failure.ClassifiedError) {
	return s.answer("director", threshold)
}

func (s *sourceStub) ActorCounts(_ context.Context, threshold int) ([]storage.Bucket, failure.ClassifiedError) {
	return s.answer("actor", threshold)
}

func (s *sourceStub) GenreCounts(context.Context) ([]storage.Bucket, failure.ClassifiedError) {
	return s.answer("genre", 0)
}

func (s *sourceStub) answer(query string, threshold int) ([]storage.Bucket, failure.ClassifiedError) {
	s.calls = append(s.calls, query)
	s.threshold = threshold
	if s.err != nil {
		return nil, s.err
	}
	return s.buckets, nil
}

// rendererSpy keeps every report it is given.
type rendererSpy struct {
	mu      sync.Mutex
	reports []report.Report
	err     failure.ClassifiedError
}

func (r *rendererSpy) Render(_ context.Context, rep report.Report) failure.ClassifiedError {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, rep)
	if r.err != nil {
		return r.err
	}
	return nil
}

var directorBuckets = []storage.Bucket{
	{Label: "Christopher Nolan", Count: 7},
	{Label: "Stanley Kubrick", Count: 7},
	{Label: "Akira Kurosawa", Count: 6},
}
