package bcrypt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	xbcrypt "golang.org/x/crypto/bcrypt"

	"feed-service/internal/custom_errors"
	"feed-service/internal/infrastructure/outbound/auth/bcrypt"
)

func TestHasher(t *testing.T) {
	hasher := bcrypt.NewHasher(xbcrypt.MinCost)

	digest, err := hasher.Hash("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", digest)

	assert.True(t, hasher.Compare("secret", digest))
	assert.False(t, hasher.Compare("Secret", digest))
	assert.False(t, hasher.Compare("secret", "not-a-digest"))

	_, err = hasher.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, custom_errors.ErrPasswordHash)
}
