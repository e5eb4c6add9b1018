package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/rohmanhakim/top-movies/internal/catalog"
	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

// InsertAll writes every movie of cat in listing order. The legacy
// directors and stars tables get one row per movie holding the joined
// names; the link tables get one row per name.
func (s *Store) InsertAll(ctx context.Context, cat *catalog.Catalog) failure.ClassifiedError {
	movies := cat.Movies()
	if err := s.insertAll(ctx, movies); err != nil {
		return s.fail("Store.InsertAll", &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseWriteFailure,
			Path:    s.path,
		})
	}

	s.metadataSink.RecordArtifact(
		metadata.ArtifactDatabase,
		s.path,
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrRows, strconv.Itoa(len(movies))),
		},
	)
	return nil
}

func (s *Store) insertAll(ctx context.Context, movies []catalog.MovieRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, m := range movies {
		if err := insertMovie(ctx, tx, m); err != nil {
			return fmt.Errorf("%q: %w", m.Name, err)
		}
	}

	return tx.Commit()
}

func insertMovie(ctx context.Context, tx *sql.Tx, m catalog.MovieRecord) error {
	res, err := tx.ExecContext(ctx, `
		INSERT INTO movies (IMDB_Rank, Name, Link, Genre, RatingValue, RatingCount, ContentRating, Date_published)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.Rank,
		m.Name,
		m.Link,
		m.Genre(),
		m.RatingValue,
		m.RatingCount,
		m.ContentRating,
		m.DatePublished,
	)
	if err != nil {
		return fmt.Errorf("insert movies: %w", err)
	}
	movieID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("movie id: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO directors (MovieName, DirectorName) VALUES (?, ?)`,
		m.Name, m.Director(),
	); err != nil {
		return fmt.Errorf("insert directors: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stars (MovieName, StarName) VALUES (?, ?)`,
		m.Name, m.Stars(),
	); err != nil {
		return fmt.Errorf("insert stars: %w", err)
	}

	links := []struct {
		stmt   string
		values []string
	}{
		{`INSERT INTO movie_directors (MovieId, DirectorName) VALUES (?, ?)`, m.Directors},
		{`INSERT INTO movie_stars (MovieId, StarName) VALUES (?, ?)`, m.Cast},
		{`INSERT INTO movie_genres (MovieId, Genre) VALUES (?, ?)`, m.Genres},
	}
	for _, link := range links {
		for _, v := range link.values {
			if _, err := tx.ExecContext(ctx, link.stmt, movieID, v); err != nil {
				return fmt.Errorf("insert link: %w", err)
			}
		}
	}
	return nil
}
