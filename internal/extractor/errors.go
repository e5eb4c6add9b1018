package extractor

import (
	"fmt"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

type ExtractionErrorCause string

const (
	ErrCauseNotHTML          ExtractionErrorCause = "not html"
	ErrCauseNoListing        ExtractionErrorCause = "no listing entries"
	ErrCauseNoStructuredData ExtractionErrorCause = "no structured data"
	ErrCauseDecodeFailure    ExtractionErrorCause = "decode failure"
	ErrCauseMissingField     ExtractionErrorCause = "missing field"
	ErrCauseUnexpectedShape  ExtractionErrorCause = "unexpected shape"
	ErrCauseInvalidValue     ExtractionErrorCause = "invalid value"
)

type ExtractionError struct {
	Message   string
	Retryable bool
	Cause     ExtractionErrorCause
	// Field names the offending key, when there is one.
	Field string
}

func (e *ExtractionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("extraction error: %s: %s: %s", e.Cause, e.Field, e.Message)
	}
	return fmt.Sprintf("extraction error: %s: %s", e.Cause, e.Message)
}

func (e *ExtractionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapExtractionErrorToMetadataCause maps extractor-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapExtractionErrorToMetadataCause(err *ExtractionError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNotHTML,
		ErrCauseNoListing,
		ErrCauseNoStructuredData,
		ErrCauseDecodeFailure,
		ErrCauseMissingField,
		ErrCauseUnexpectedShape,
		ErrCauseInvalidValue:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
