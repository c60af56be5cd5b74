package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	for _, password := range []string{"hunter2", "correct horse battery staple", "пароль", ""} {
		stored, err := HashPassword(password)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(password, stored), "password %q should verify", password)
		assert.False(t, VerifyPassword(password+"x", stored))
	}
}

func TestPasswordStoredFormat(t *testing.T) {
	stored, err := HashPassword("secret")
	require.NoError(t, err)

	parts := strings.SplitN(stored, ":", 2)
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], saltBytes*2)
	assert.Len(t, parts[1], keyBytes*2)
}

func TestPasswordSaltsDiffer(t *testing.T) {
	a, err := HashPassword("same")
	require.NoError(t, err)
	b, err := HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	assert.False(t, VerifyPassword("x", ""))
	assert.False(t, VerifyPassword("x", "no-separator"))
	assert.False(t, VerifyPassword("x", "zz:zz"))
	assert.False(t, VerifyPassword("x", "abcd:1234"))
}
