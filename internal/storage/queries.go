package storage

import (
	"context"

	"github.com/rohmanhakim/top-movies/pkg/failure"
)

const (
	ratedQuery = `
		SELECT ContentRating, COUNT(*)
		FROM movies
		GROUP BY ContentRating
		ORDER BY COUNT(*) DESC, ContentRating ASC`

	yearQuery = `
		SELECT SUBSTR(Date_published, 1, 4) AS Year, COUNT(*)
		FROM movies
		GROUP BY Year
		ORDER BY Year ASC`

	directorQuery = `
		SELECT DirectorName, COUNT(*)
		FROM movie_directors
		GROUP BY DirectorName
		HAVING COUNT(*) > ?
		ORDER BY COUNT(*) DESC, DirectorName ASC`

	actorQuery = `
		SELECT StarName, COUNT(*)
		FROM movie_stars
		GROUP BY StarName
		HAVING COUNT(*) > ?
		ORDER BY COUNT(*) DESC, StarName ASC`

	genreQuery = `
		SELECT Genre, COUNT(*)
		FROM movie_genres
		GROUP BY Genre
		ORDER BY COUNT(*) DESC, Genre ASC`
)

// RatedCounts counts movies per content rating.
func (s *Store) RatedCounts(ctx context.Context) ([]Bucket, failure.ClassifiedError) {
	return s.buckets(ctx, "Store.RatedCounts", ratedQuery)
}

// YearCounts counts movies per release year, oldest first.
func (s *Store) YearCounts(ctx context.Context) ([]Bucket, failure.ClassifiedError) {
	return s.buckets(ctx, "Store.YearCounts", yearQuery)
}

// DirectorCounts counts movies per director, keeping only directors with
// more than threshold movies.
func (s *Store) DirectorCounts(ctx context.Context, threshold int) ([]Bucket, failure.ClassifiedError) {
	return s.buckets(ctx, "Store.DirectorCounts", directorQuery, threshold)
}

// ActorCounts counts movies per cast member, keeping only actors with
// more than threshold movies.
func (s *Store) ActorCounts(ctx context.Context, threshold int) ([]Bucket, failure.ClassifiedError) {
	return s.buckets(ctx, "Store.ActorCounts", actorQuery, threshold)
}

func (s *Store) GenreCounts(ctx context.Context) ([]Bucket, failure.ClassifiedError) {
	return s.buckets(ctx, "Store.GenreCounts", genreQuery)
}

func (s *Store) buckets(ctx context.Context, action string, query string, args ...any) ([]Bucket, failure.ClassifiedError) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, s.queryFailure(action, err)
	}
	defer rows.Close()

	result := []Bucket{}
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, s.queryFailure(action, err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, s.queryFailure(action, err)
	}
	return result, nil
}

func (s *Store) queryFailure(action string, err error) *StorageError {
	return s.fail(action, &StorageError{
		Message: err.Error(),
		Cause:   ErrCauseQueryFailure,
		Path:    s.path,
	})
}
