package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, pw := range []string{"pw123456", "correct horse battery staple", "ünïcødé-pässwörd", ""} {
		hash, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, hash)
		assert.True(t, h.Verify(pw, hash), "password %q must verify", pw)
		assert.False(t, h.Verify(pw+"x", hash))
	}
}

func TestPasswordHasher_Salted(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(bcrypt.MinCost)

	assert.False(t, h.Verify("pw", ""))
	assert.False(t, h.Verify("pw", "not-a-bcrypt-hash"))
	assert.False(t, h.Verify("pw", "$2a$10$short"))
}

func TestNewPasswordHasher_CostOutOfRange(t *testing.T) {
	t.Parallel()
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(0).Cost)
	assert.Equal(t, bcrypt.DefaultCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost)
	assert.Equal(t, 6, NewPasswordHasher(6).Cost)

	hash, err := NewPasswordHasher(6).Hash("pw")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 6, cost)
}
