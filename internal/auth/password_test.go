package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/healthcare-accounts/internal/auth"
)

// low cost keeps the test fast; cost does not affect correctness
const testCost = 4

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := auth.HashPassword("Sup3r$ecret", testCost)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotContains(t, hash, "Sup3r$ecret")

	assert.True(t, auth.VerifyPassword("Sup3r$ecret", hash))
	assert.False(t, auth.VerifyPassword("Sup3r$ecret2", hash))
	assert.False(t, auth.VerifyPassword("", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := auth.HashPassword("Sup3r$ecret", testCost)
	require.NoError(t, err)
	second, err := auth.HashPassword("Sup3r$ecret", testCost)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, auth.VerifyPassword("Sup3r$ecret", first))
	assert.True(t, auth.VerifyPassword("Sup3r$ecret", second))
}

func TestHashPassword_OutOfRangeCostFallsBack(t *testing.T) {
	hash, err := auth.HashPassword("Sup3r$ecret", 99)
	require.NoError(t, err)
	assert.True(t, auth.VerifyPassword("Sup3r$ecret", hash))
}

func TestVerifyPassword_MalformedDigest(t *testing.T) {
	assert.False(t, auth.VerifyPassword("Sup3r$ecret", "not-a-bcrypt-digest"))
	assert.False(t, auth.VerifyPassword("Sup3r$ecret", ""))
}
