package cache

import (
	"fmt"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

type CacheErrorCause string

const (
	ErrCauseReadFailure   CacheErrorCause = "read failure"
	ErrCauseDecodeFailure CacheErrorCause = "decode failure"
	ErrCauseEncodeFailure CacheErrorCause = "encode failure"
	ErrCauseWriteFailure  CacheErrorCause = "write failure"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     CacheErrorCause
	Path      string
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("cache error: %s: %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func mapCacheErrorToMetadataCause(err *CacheError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseReadFailure, ErrCauseWriteFailure:
		return metadata.CauseStorageFailure
	case ErrCauseDecodeFailure, ErrCauseEncodeFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
