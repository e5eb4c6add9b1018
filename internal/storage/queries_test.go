package storage_test

import (
	"context"
	"testing"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedStore(t *testing.T) *storage.Store {
	t.Helper()
	s := newTestStore(t, &metadata.NoopSink{})
	require.Nil(t, s.InsertAll(context.Background(), sampleCatalog()))
	return s
}

func TestRatedCounts(t *testing.T) {
	s := loadedStore(t)

	got, err := s.RatedCounts(context.Background())
	require.Nil(t, err)
	assert.Equal(t, []storage.Bucket{
		{Label: "R", Count: 5},
		{Label: "PG-13", Count: 3},
		{Label: "NA", Count: 1},
		{Label: "PG", Count: 1},
	}, got)
}

func TestYearCounts_AscendingByYear(t *testing.T) {
	s := loadedStore(t)

	got, err := s.YearCounts(context.Background())
	require.Nil(t, err)
	assert.Equal(t, []storage.Bucket{
		{Label: "1957", Count: 1},
		{Label: "1964", Count: 1},
		{Label: "1980", Count: 1},
		{Label: "1995", Count: 1},
		{Label: "1999", Count: 1},
		{Label: "2000", Count: 1},
		{Label: "2007", Count: 1},
		{Label: "2008", Count: 1},
		{Label: "2010", Count: 1},
		{Label: "2014", Count: 1},
	}, got)
}

func TestDirectorCounts_Threshold(t *testing.T) {
	tests := []struct {
		name      string
		threshold int
		want      []storage.Bucket
	}{
		{
			name:      "more than twice",
			threshold: 2,
			want: []storage.Bucket{
				{Label: "Christopher Nolan", Count: 4},
				{Label: "Stanley Kubrick", Count: 3},
			},
		},
		{
			name:      "more than once",
			threshold: 1,
			want: []storage.Bucket{
				{Label: "Christopher Nolan", Count: 4},
				{Label: "Stanley Kubrick", Count: 3},
				{Label: "David Fincher", Count: 2},
			},
		},
		{
			name:      "more than three times",
			threshold: 3,
			want: []storage.Bucket{
				{Label: "Christopher Nolan", Count: 4},
			},
		},
		{
			name:      "nobody qualifies",
			threshold: 10,
			want:      []storage.Bucket{},
		},
	}

	s := loadedStore(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.DirectorCounts(context.Background(), tt.threshold)
			require.Nil(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectorCounts_ExactlyTwoExcludedAtDefault(t *testing.T) {
	s := loadedStore(t)

	got, err := s.DirectorCounts(context.Background(), 2)
	require.Nil(t, err)
	for _, b := range got {
		assert.NotEqual(t, "David Fincher", b.Label)
	}

	all, err := s.DirectorCounts(context.Background(), 0)
	require.Nil(t, err)
	assert.Contains(t, all, storage.Bucket{Label: "David Fincher", Count: 2})
}

func TestDirectorCounts_SplitsCoDirectors(t *testing.T) {
	s := loadedStore(t)

	got, err := s.DirectorCounts(context.Background(), 0)
	require.Nil(t, err)
	assert.Contains(t, got, storage.Bucket{Label: "Joel Coen", Count: 1})
	assert.Contains(t, got, storage.Bucket{Label: "Ethan Coen", Count: 1})
	// ties broken by name
	require.Len(t, got, 5)
	assert.Equal(t, "Ethan Coen", got[3].Label)
	assert.Equal(t, "Joel Coen", got[4].Label)
}

func TestActorCounts(t *testing.T) {
	s := loadedStore(t)

	got, err := s.ActorCounts(context.Background(), 2)
	require.Nil(t, err)
	assert.Equal(t, []storage.Bucket{{Label: "Michael Caine", Count: 3}}, got)
}

func TestGenreCounts_NoThreshold(t *testing.T) {
	s := loadedStore(t)

	got, err := s.GenreCounts(context.Background())
	require.Nil(t, err)
	assert.Equal(t, []storage.Bucket{
		{Label: "Drama", Count: 6},
		{Label: "Crime", Count: 3},
		{Label: "Action", Count: 2},
		{Label: "Mystery", Count: 2},
		{Label: "Sci-Fi", Count: 2},
		{Label: "War", Count: 2},
		{Label: "Adventure", Count: 1},
		{Label: "Comedy", Count: 1},
		{Label: "Horror", Count: 1},
	}, got)
}

func TestQueries_ClosedStore(t *testing.T) {
	s := loadedStore(t)
	require.NoError(t, s.Close())

	_, err := s.GenreCounts(context.Background())
	require.NotNil(t, err)

	var storageErr *storage.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.Equal(t, storage.ErrCauseQueryFailure, storageErr.Cause)
}
