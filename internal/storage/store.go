package storage

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
	"github.com/rohmanhakim/top-movies/pkg/fileutil"

	_ "modernc.org/sqlite"
)

/*
Responsibilities
- Own the single database handle of a run
- Replace the schema and load a catalog into it
- Answer the grouped-count queries behind the reports

Output Characteristics
- Every run starts from an empty schema
- A catalog is written in one transaction: all rows or none
*/

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db           *sql.DB
	path         string
	metadataSink metadata.MetadataSink
}

// Open opens (or creates) the SQLite file at path. The handle is meant to
// live for the whole run and be released with Close.
func Open(ctx context.Context, path string, metadataSink metadata.MetadataSink) (*Store, failure.ClassifiedError) {
	s := &Store{
		path:         path,
		metadataSink: metadataSink,
	}

	if err := fileutil.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, s.fail("Store.Open", &StorageError{
			Message: err.Error(),
			Cause:   ErrCausePathError,
			Path:    path,
		})
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, s.fail("Store.Open", &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseOpenFailure,
			Path:    path,
		})
	}
	// one writer; SQLite serializes anyway
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, s.fail("Store.Open", &StorageError{
				Message: fmt.Sprintf("exec %q: %v", pragma, err),
				Cause:   ErrCauseOpenFailure,
				Path:    path,
			})
		}
	}

	s.db = db
	return s, nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return s.fail("Store.Close", &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseCloseFailure,
			Path:    s.path,
		})
	}
	return nil
}

// InitSchema drops every table and creates it again empty.
func (s *Store) InitSchema(ctx context.Context) failure.ClassifiedError {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return s.fail("Store.InitSchema", &StorageError{
			Message: err.Error(),
			Cause:   ErrCauseSchemaFailure,
			Path:    s.path,
		})
	}
	return nil
}

// Counts returns the row count of every table, in schema order.
func (s *Store) Counts(ctx context.Context) ([]TableCount, failure.ClassifiedError) {
	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var rows int
		// table names come from the fixed list above
		if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&rows); err != nil {
			return nil, s.fail("Store.Counts", &StorageError{
				Message: fmt.Sprintf("count %s: %v", table, err),
				Cause:   ErrCauseQueryFailure,
				Path:    s.path,
			})
		}
		counts = append(counts, TableCount{Table: table, Rows: rows})
	}
	return counts, nil
}

func (s *Store) fail(action string, err *StorageError) *StorageError {
	s.metadataSink.RecordError(
		time.Now(),
		"storage",
		action,
		mapStorageErrorToMetadataCause(err),
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrPath, err.Path),
		},
	)
	return err
}
