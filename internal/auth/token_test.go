package auth

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

var testIdentity = domain.Identity{SubjectID: 42, Email: "a@x.com", Role: domain.RoleCitizen}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerateAndParseToken(t *testing.T) {
	tm := NewTokenManager("secret", 24*time.Hour, "panchayat-test")

	token, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 2*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, domain.RoleCitizen, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.Equal(t, "citizen:42", claims.Subject)
	assert.Equal(t, testIdentity, claims.Identity())
}

func TestParseTokenIsIdempotent(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "")
	token, _, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)

	first, err := tm.ParseToken(token)
	require.NoError(t, err)
	second, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, first.Identity(), second.Identity())
	assert.Equal(t, first.ID, second.ID)
}

func TestTokenExpiryBoundary(t *testing.T) {
	issued := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ttl := 24 * time.Hour
	tm := NewTokenManager("secret", ttl, "panchayat").WithClock(fixedClock(issued))

	token, exp, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)
	assert.Equal(t, issued.Add(ttl), exp)

	_, err = tm.WithClock(fixedClock(exp.Add(-time.Second))).ParseToken(token)
	assert.NoError(t, err, "strictly before expiry must be accepted")

	_, err = tm.WithClock(fixedClock(exp)).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired, "exactly at expiry must be rejected")

	_, err = tm.WithClock(fixedClock(exp.Add(time.Hour))).ParseToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseTokenRejectsTampering(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "panchayat")
	token, _, err := tm.GenerateToken(testIdentity)
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour, "panchayat").ParseToken(token)
	assert.Error(t, err)

	_, err = NewTokenManager("secret", time.Hour, "someone-else").ParseToken(token)
	assert.Error(t, err)

	_, err = tm.ParseToken(token + "x")
	assert.Error(t, err)

	_, err = tm.ParseToken("")
	assert.Error(t, err)
}

func TestParseTokenRejectsUnknownAlgorithmAndRole(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{
		UserID: 1, Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = tm.ParseToken(unsigned)
	assert.Error(t, err)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: 1, Role: domain.Role("superuser"),
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := forged.SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = tm.ParseToken(signed)
	assert.ErrorIs(t, err, ErrInvalidRoleClaim)
}

func TestParseTokenRequiresExpiry(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "")
	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: 1, Role: domain.RoleCitizen})
	signed, err := noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = tm.ParseToken(signed)
	assert.Error(t, err)
}
