package verification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCodeShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, CodeLength)
		assert.True(t, ValidCodeFormat(code), "code %q", code)
	}
}

func TestGenerateCodeNoPositionalBias(t *testing.T) {
	// every digit should show up at every position over a large sample;
	// a stuck or truncated position would fail this immediately
	const samples = 2000
	var seen [CodeLength][10]int
	for i := 0; i < samples; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		for pos := 0; pos < CodeLength; pos++ {
			seen[pos][code[pos]-'0']++
		}
	}
	for pos := 0; pos < CodeLength; pos++ {
		for d := 0; d < 10; d++ {
			assert.Greater(t, seen[pos][d], 0, "digit %d never drawn at position %d", d, pos)
		}
	}
}

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
	assert.True(t, ValidTokenFormat(a))
	assert.False(t, ValidTokenFormat(""))
}

func TestValidCodeFormat(t *testing.T) {
	valid := []string{"000000", "999999", "483920"}
	for _, s := range valid {
		assert.True(t, ValidCodeFormat(s), "%q", s)
	}
	invalid := []string{"", "12345", "1234567", "12a456", "12 456", "12345\n", "½23456"}
	for _, s := range invalid {
		assert.False(t, ValidCodeFormat(s), "%q", s)
	}
}
