package launcher

import (
	"fmt"

	"github.com/rohmanhakim/top-movies/internal/metadata"
	"github.com/rohmanhakim/top-movies/pkg/failure"
)

type LaunchErrorCause string

const (
	ErrCauseInvalidTarget LaunchErrorCause = "invalid target"
	ErrCauseLaunchFailure LaunchErrorCause = "launch failed"
)

type LaunchError struct {
	Message   string
	Retryable bool
	Cause     LaunchErrorCause
	Target    string
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launcher error: %s: %s: %s", e.Cause, e.Target, e.Message)
}

func (e *LaunchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapLaunchErrorToMetadataCause maps launcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapLaunchErrorToMetadataCause(err *LaunchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseInvalidTarget:
		return metadata.CauseInvariantViolation
	case ErrCauseLaunchFailure:
		return metadata.CauseUnknown
	default:
		return metadata.CauseUnknown
	}
}
