package storage

import (
	"fmt"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

type StorageErrorCause string

const (
	ErrCausePathError     StorageErrorCause = "path error"
	ErrCauseOpenFailure   StorageErrorCause = "open failed"
	ErrCauseSchemaFailure StorageErrorCause = "schema failed"
	ErrCauseWriteFailure  StorageErrorCause = "write failed"
	ErrCauseQueryFailure  StorageErrorCause = "query failed"
	ErrCauseCloseFailure  StorageErrorCause = "close failed"
)

type StorageError struct {
	Message   string
	Retryable bool
	Cause     StorageErrorCause
	Path      string
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error: %s: %s", e.Cause, e.Message)
}

func (e *StorageError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapStorageErrorToMetadataCause maps storage-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapStorageErrorToMetadataCause(err *StorageError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCausePathError,
		ErrCauseOpenFailure,
		ErrCauseSchemaFailure,
		ErrCauseWriteFailure,
		ErrCauseQueryFailure,
		ErrCauseCloseFailure:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
