package verification

// MaxAttempts is the failed-validation budget of a single code. Once
// reached the code is dead and must be re-issued.
const MaxAttempts = 5

// Limited reports whether the attempt budget is exhausted.
func Limited(attempts int) bool {
	return attempts >= MaxAttempts
}

// Remaining returns how many attempts are left, never negative.
func Remaining(attempts int) int {
	if attempts >= MaxAttempts {
		return 0
	}
	return MaxAttempts - attempts
}
