package services

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"issue-tracker/internal/apperrors"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", apperrors.NewValidationError("password must be at most 72 bytes")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", apperrors.NewInternalError("Failed to hash password", err.Error())
	}
	return string(hash), nil
}

// Verify accepts a bcrypt match, or an exact match against a stored value that
// was never hashed (rows imported before hashing was introduced).
func (h *PasswordHasher) Verify(stored, submitted string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(submitted))
	if err == nil {
		return true
	}
	if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		// not a bcrypt hash: legacy plaintext row
		return subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) == 1
	}
	return false
}
