package failure

type Severity int

// run control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

type ClassifiedError interface {
	error
	Severity() Severity
}

// IsFatal reports whether err carries fatal severity.
// Plain errors that do not classify themselves are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if ce, ok := err.(ClassifiedError); ok {
		return ce.Severity() == SeverityFatal
	}
	return true
}
