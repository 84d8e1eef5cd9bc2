package verification

import "time"

// ExpiryFrom computes the expiry timestamp for a credential issued at now.
func ExpiryFrom(now time.Time, ttl time.Duration) time.Time {
	return now.UTC().Add(ttl)
}

// Expired reports whether expiresAt has passed. A zero expiry is treated
// as already expired. Both sides are normalized to UTC before comparing:
// timestamps scanned out of the database carry no offset, and comparing
// them raw against a local now silently miscompares.
func Expired(expiresAt, now time.Time) bool {
	if expiresAt.IsZero() {
		return true
	}
	return now.UTC().After(expiresAt.UTC())
}
