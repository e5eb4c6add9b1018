package metadata

import (
	"time"
)

/*
ErrorCause is a closed, canonical classification used only for observability.

Rules:
  - It must never drive retry, continuation or abort decisions.
  - Packages MAY map their local errors to ErrorCause but MUST NOT invent
    new meanings.
  - If a failure does not clearly match a defined cause, CauseUnknown is used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure
  - Transport errors, timeouts, 5xx responses.

# CausePolicyDisallow
  - The remote refused the request (403, 429).

# CauseContentInvalid
  - A page was fetched but could not be parsed or lacked required data.

# CauseStorageFailure
  - Cache file or database I/O failed.

# CauseInvariantViolation
  - An internal consistency check failed.

# CauseRetryFailure
  - Retries were exhausted or interrupted.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
	CauseRetryFailure
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	case CauseRetryFailure:
		return "retry_failure"
	default:
		return "unknown"
	}
}

type ArtifactKind string

const (
	ArtifactCacheFile ArtifactKind = "cache_file"
	ArtifactDatabase  ArtifactKind = "database"
	ArtifactChart     ArtifactKind = "chart"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrPath       AttributeKey = "path"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrMessage    AttributeKey = "message"
	AttrMovie      AttributeKey = "movie"
	AttrReport     AttributeKey = "report"
	AttrDigest     AttributeKey = "digest"
	AttrRows       AttributeKey = "rows"
)

// RunStats is the terminal summary of one pipeline run.
// It is derived by the caller after the run and recorded once.
type RunStats struct {
	Movies    int
	Fetches   int
	CacheHits int
	Duration  time.Duration
}
