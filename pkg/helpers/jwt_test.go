package helpers

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t *time.Time) func() time.Time {
	return func() time.Time { return *t }
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("super-secret", 30*time.Minute, 7*24*time.Hour)

	tok, exp, err := m.Issue("a@x.com", map[string]any{"custom": "v"}, time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	sub, ok := StringClaim(claims, ClaimSubject)
	require.True(t, ok)
	assert.Equal(t, "a@x.com", sub)
	assert.Equal(t, "v", claims["custom"])
}

func TestIssue_SubjectOverridesClaims(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("k", time.Minute, time.Hour)

	tok, _, err := m.Issue("real@x.com", map[string]any{"sub": "forged@x.com"}, time.Minute)
	require.NoError(t, err)
	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "real@x.com", claims[ClaimSubject])
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("k", 30*time.Minute, 7*24*time.Hour)
	m.Now = fixedClock(&now)

	tok, _, err := m.IssueAccess("a@x.com")
	require.NoError(t, err)

	now = now.Add(29 * time.Minute)
	_, err = m.Verify(tok)
	require.NoError(t, err, "token must verify before ttl elapses")

	now = now.Add(2 * time.Minute)
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssueRefresh_CarriesType(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewJWTManager("k", 30*time.Minute, 7*24*time.Hour)
	m.Now = fixedClock(&now)

	tok, exp, err := m.IssueRefresh("a@x.com")
	require.NoError(t, err)
	assert.Equal(t, now.Add(7*24*time.Hour), exp)

	claims, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims[ClaimType])

	access, _, err := m.IssueAccess("a@x.com")
	require.NoError(t, err)
	claims, err = m.Verify(access)
	require.NoError(t, err)
	_, hasType := claims[ClaimType]
	assert.False(t, hasType)
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()
	tok, _, err := NewJWTManager("right", time.Hour, time.Hour).IssueAccess("u")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong", time.Hour, time.Hour).Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_TamperedPayload(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("k", time.Hour, time.Hour)
	tok, _, err := m.IssueAccess("user@x.com")
	require.NoError(t, err)

	other, _, err := m.IssueAccess("admin@x.com")
	require.NoError(t, err)

	parts := strings.Split(tok, ".")
	otherParts := strings.Split(other, ".")
	forged := parts[0] + "." + otherParts[1] + "." + parts[2]

	_, err = m.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("k", time.Hour, time.Hour)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "a@x.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err := hs512.SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "a@x.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_MissingExpiry(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("k", time.Hour, time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "a@x.com"})
	s, err := tok.SignedString(m.Secret)
	require.NoError(t, err)

	_, err = m.Verify(s)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()
	m := NewJWTManager("k", time.Hour, time.Hour)
	for _, s := range []string{"", "not.a.jwt", "abc"} {
		_, err := m.Verify(s)
		assert.ErrorIs(t, err, ErrInvalidToken, "input %q", s)
	}
}

func TestStringClaim(t *testing.T) {
	t.Parallel()
	claims := jwt.MapClaims{"sub": "a", "empty": "", "num": 3.0}
	v, ok := StringClaim(claims, "sub")
	assert.True(t, ok)
	assert.Equal(t, "a", v)
	_, ok = StringClaim(claims, "empty")
	assert.False(t, ok)
	_, ok = StringClaim(claims, "num")
	assert.False(t, ok)
	_, ok = StringClaim(claims, "missing")
	assert.False(t, ok)
}
