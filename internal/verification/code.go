package verification

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

const (
	// CodeLength is the number of digits in a reset code.
	CodeLength = 6

	// tokenBytes is the entropy of an email-confirmation token (256 bit).
	tokenBytes = 32
)

var ten = big.NewInt(10)

// GenerateCode returns a 6-digit numeric code. Each digit is an
// independent uniform draw from crypto/rand; math/rand is never
// acceptable for a credential.
func GenerateCode() (string, error) {
	buf := make([]byte, CodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate code digit: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}

// GenerateToken returns an opaque URL-safe confirmation token.
func GenerateToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// ValidCodeFormat reports whether s is exactly 6 ASCII digits.
func ValidCodeFormat(s string) bool {
	if len(s) != CodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// ValidTokenFormat reports whether s can be a stored confirmation token.
func ValidTokenFormat(s string) bool {
	return s != ""
}
