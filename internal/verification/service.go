package verification

import (
	"errors"
	"fmt"
	"time"
)

// ErrCorruptRecord means a stored record has a code but no expiry. That
// invariant is owned by the persistence layer; hitting it here is a
// defect upstream, not a user error.
var ErrCorruptRecord = errors.New("verification record has code but no expiry")

// Policy parameterizes the state machine over credential shape and
// lifetime. The machine itself is identical for 6-digit reset codes and
// opaque email-confirmation tokens.
type Policy struct {
	TTL         time.Duration
	Generate    func() (string, error)
	ValidFormat func(string) bool
}

// ResetCodePolicy: 6-digit numeric code, 10 minute lifetime.
func ResetCodePolicy() Policy {
	return Policy{
		TTL:         10 * time.Minute,
		Generate:    GenerateCode,
		ValidFormat: ValidCodeFormat,
	}
}

// EmailTokenPolicy: opaque URL-safe token, 24 hour lifetime.
func EmailTokenPolicy() Policy {
	return Policy{
		TTL:         24 * time.Hour,
		Generate:    GenerateToken,
		ValidFormat: ValidTokenFormat,
	}
}

// Record is the persisted shape the machine evaluates. An empty Code
// means no active credential.
type Record struct {
	Code      string
	ExpiresAt *time.Time
	Attempts  int
}

// Issued is the product of Issue; the caller persists it together with
// attempts reset to zero.
type Issued struct {
	Code      string
	ExpiresAt time.Time
}

// Service is the verification state machine. It is pure: the clock is
// passed in, nothing is stored, and concurrent callers need no locking.
// All persistence of the transitions it signals belongs to the caller.
type Service struct {
	policy Policy
}

func NewService(policy Policy) *Service {
	return &Service{policy: policy}
}

// Issue produces a fresh credential. Allowed from any state: issuing
// over an active, expired, or locked code replaces it outright.
func (s *Service) Issue(now time.Time) (Issued, error) {
	code, err := s.policy.Generate()
	if err != nil {
		return Issued{}, fmt.Errorf("issue: %w", err)
	}
	return Issued{Code: code, ExpiresAt: ExpiryFrom(now, s.policy.TTL)}, nil
}

// Validate classifies submitted against the stored record. The check
// order is load-bearing: rate limit, then format, then expiry, then
// equality. Rate limit first so an attacker who burned the budget
// cannot probe expiry state; format before expiry so malformed input
// learns nothing; malformed input never consumes an attempt.
func (s *Service) Validate(submitted string, rec Record, now time.Time) (Result, error) {
	if rec.Code == "" {
		return Result{Outcome: OutcomeNotFound, RemainingAttempts: Remaining(rec.Attempts)}, nil
	}
	if rec.ExpiresAt == nil {
		return Result{}, ErrCorruptRecord
	}
	if Limited(rec.Attempts) {
		return Result{Outcome: OutcomeRateLimited}, nil
	}
	if !s.policy.ValidFormat(submitted) {
		return Result{Outcome: OutcomeInvalidFormat, RemainingAttempts: Remaining(rec.Attempts)}, nil
	}
	if Expired(*rec.ExpiresAt, now) {
		return Result{Outcome: OutcomeExpired, RemainingAttempts: Remaining(rec.Attempts)}, nil
	}
	if submitted != rec.Code {
		return Result{Outcome: OutcomeMismatch, RemainingAttempts: Remaining(rec.Attempts + 1)}, nil
	}
	return Result{Outcome: OutcomeSuccess, RemainingAttempts: Remaining(rec.Attempts)}, nil
}
