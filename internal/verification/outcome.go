package verification

// Outcome classifies a validation attempt. Expected failures are
// outcomes, not errors: the caller branches on them and persists the
// corresponding state transition.
type Outcome int

const (
	// OutcomeNotFound: no active code; the requester needs a new one.
	OutcomeNotFound Outcome = iota
	// OutcomeRateLimited: attempt budget exhausted; code must be re-issued.
	OutcomeRateLimited
	// OutcomeInvalidFormat: malformed input; does not consume an attempt.
	OutcomeInvalidFormat
	// OutcomeExpired: code past its expiry; must be re-issued.
	OutcomeExpired
	// OutcomeMismatch: well-formed but wrong; caller increments attempts.
	OutcomeMismatch
	// OutcomeSuccess: code consumed; caller clears the record.
	OutcomeSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNotFound:
		return "not_found"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeInvalidFormat:
		return "invalid_format"
	case OutcomeExpired:
		return "expired"
	case OutcomeMismatch:
		return "mismatch"
	case OutcomeSuccess:
		return "success"
	}
	return "unknown"
}

// Result is what Validate hands back to the caller.
type Result struct {
	Outcome Outcome

	// RemainingAttempts is the budget left after this call takes effect.
	// For OutcomeMismatch it already accounts for the increment the
	// caller is about to persist.
	RemainingAttempts int
}
