package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	require.NotNil(t, claims.UserID)
	assert.Equal(t, int64(42), *claims.UserID)
}

func TestVerifyZeroUserID(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.Issue(0)
	require.NoError(t, err)

	claims, err := m.Verify(raw)
	require.NoError(t, err)
	require.NotNil(t, claims.UserID)
	assert.Equal(t, int64(0), *claims.UserID)
}

func TestVerifyExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	raw, err := m.Issue(42)
	require.NoError(t, err)

	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyTampered(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.Issue(42)
	require.NoError(t, err)

	_, err = m.Verify(raw + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyWrongSecret(t *testing.T) {
	other := NewManager("other-secret", time.Hour)
	raw, err := other.Issue(42)
	require.NoError(t, err)

	m := NewManager("test-secret", time.Hour)
	_, err = m.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyMissingUserClaim(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Verify(signed)
	assert.ErrorIs(t, err, ErrMissingUserClaim)
}
