package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidPassword marks plaintexts bcrypt cannot hash (empty or longer than 72 bytes).
var ErrInvalidPassword = errors.New("invalid password")

// PasswordHasher hashes and verifies credentials with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher returns a hasher; costs outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted digest. The same input hashes differently on every call.
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", fmt.Errorf("%w: password required", ErrInvalidPassword)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", ErrInvalidPassword)
		}
		return "", err
	}
	return string(hashed), nil
}

// Matches reports whether plain produces digest.
func (h *PasswordHasher) Matches(plain, digest string) bool {
	if digest == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}
