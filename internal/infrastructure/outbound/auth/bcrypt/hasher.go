package bcrypt

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"feed-service/internal/custom_errors"
)

type Hasher struct {
	cost int
}

// NewHasher falls back to bcrypt.DefaultCost for out-of-range costs.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", custom_errors.ErrPasswordHash, err)
	}
	return string(digest), nil
}

func (h *Hasher) Compare(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
