package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies user passwords with bcrypt. bcrypt embeds a
// random salt in every digest, so two hashes of the same password differ.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost factor. Costs
// outside bcrypt's valid range fall back to the default.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// HashPassword returns the salted bcrypt digest of a plaintext password.
func (h *Hasher) HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// CheckPassword reports whether digest was produced from password. A
// malformed digest is a mismatch, not an error.
func (h *Hasher) CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
