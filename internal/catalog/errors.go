package catalog

import (
	"fmt"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

type CatalogErrorCause string

const (
	ErrCauseListingFetch  CatalogErrorCause = "listing fetch failed"
	ErrCauseListingParse  CatalogErrorCause = "listing parse failed"
	ErrCauseInvalidLink   CatalogErrorCause = "invalid link"
	ErrCauseDetailFetch   CatalogErrorCause = "detail fetch failed"
	ErrCauseDetailExtract CatalogErrorCause = "detail extraction failed"
	ErrCauseCancelled     CatalogErrorCause = "cancelled"
)

// CatalogError aborts a build. Err keeps the underlying fetch or
// extraction error for errors.As.
type CatalogError struct {
	Message   string
	Retryable bool
	Cause     CatalogErrorCause
	Movie     string
	Err       error
}

func (e *CatalogError) Error() string {
	msg := fmt.Sprintf("catalog error: %s: %s", e.Cause, e.Message)
	if e.Movie != "" {
		msg = fmt.Sprintf("catalog error: %s: %q: %s", e.Cause, e.Movie, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CatalogError) Unwrap() error {
	return e.Err
}

func (e *CatalogError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapCatalogErrorToMetadataCause maps catalog-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapCatalogErrorToMetadataCause(err *CatalogError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseListingFetch, ErrCauseDetailFetch:
		return metadata.CauseNetworkFailure
	case ErrCauseListingParse, ErrCauseDetailExtract, ErrCauseInvalidLink:
		return metadata.CauseContentInvalid
	case ErrCauseCancelled:
		return metadata.CauseRetryFailure
	default:
		return metadata.CauseUnknown
	}
}
