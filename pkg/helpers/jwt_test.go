package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, exp, err := m.GenerateUserToken("64b0c0ffee0000000000abcd")
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "64b0c0ffee0000000000abcd", claims.UserID)
	assert.Empty(t, claims.Email)
}

func TestAdminTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	token, _, err := m.GenerateAdminToken("admin@example.com")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Empty(t, claims.UserID)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	token, _, err := m.GenerateUserToken("abc")
	require.NoError(t, err)

	other := NewJWTManager("different", time.Hour)
	_, err = other.ParseToken(token)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	m := NewJWTManager("secret", -time.Minute)
	token, _, err := m.GenerateUserToken("abc")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestGenOTPCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := GenOTPCode()
		require.NoError(t, err)
		require.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9')
		}
		seen[code] = true
	}
	// 50 draws from a million-value space should not all collide
	assert.Greater(t, len(seen), 1)
}
