package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alexedwards/argon2id"
	"golang.org/x/crypto/bcrypt"
)

// Supported password hashing schemes.
const (
	HasherBcrypt   = "bcrypt"
	HasherArgon2id = "argon2id"
)

const argon2idPrefix = "$argon2id$"

// PasswordHasher hashes new passwords with one scheme and verifies hashes
// produced by any supported scheme.
type PasswordHasher struct {
	scheme string
}

// NewPasswordHasher returns a hasher for scheme, defaulting to bcrypt.
func NewPasswordHasher(scheme string) *PasswordHasher {
	if scheme != HasherArgon2id {
		scheme = HasherBcrypt
	}
	return &PasswordHasher{scheme: scheme}
}

// Hash returns the encoded hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	if h.scheme == HasherArgon2id {
		hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
		}
		return hash, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToHashPassword, err)
	}
	return string(hash), nil
}

// Verify reports whether password matches hash. A mismatch is not an error.
func (h *PasswordHasher) Verify(password, hash string) (bool, error) {
	if strings.HasPrefix(hash, argon2idPrefix) {
		return argon2id.ComparePasswordAndHash(password, hash)
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
