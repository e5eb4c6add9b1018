package report

import (
	"fmt"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

type ReportErrorCause string

const (
	ErrCauseUnknownKind   ReportErrorCause = "unknown report"
	ErrCauseQueryFailure  ReportErrorCause = "query failed"
	ErrCauseRenderFailure ReportErrorCause = "render failed"
	ErrCauseWriteFailure  ReportErrorCause = "write failed"
	ErrCauseOpenFailure   ReportErrorCause = "open failed"
)

type ReportError struct {
	Message   string
	Retryable bool
	Cause     ReportErrorCause
	Kind      Kind
	Err       error
}

func (e *ReportError) Error() string {
	msg := fmt.Sprintf("report error: %s: %s: %s", e.Cause, e.Kind, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

func (e *ReportError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapReportErrorToMetadataCause maps report-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapReportErrorToMetadataCause(err *ReportError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseUnknownKind:
		return metadata.CauseInvariantViolation
	case ErrCauseQueryFailure, ErrCauseWriteFailure:
		return metadata.CauseStorageFailure
	case ErrCauseRenderFailure:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
