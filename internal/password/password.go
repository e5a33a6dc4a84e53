// Package password provides bcrypt hashing and verification for account
// credentials. bcrypt embeds its own random salt and cost in the hash output,
// so the stored string is self-contained.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const defaultCost = 12

// ErrMismatch is returned by Verify when the password does not match the hash.
var ErrMismatch = errors.New("password: hash mismatch")

// Service hashes and verifies passwords. The cost is injectable so tests can
// use bcrypt.MinCost instead of paying ~250ms per hash.
type Service struct {
	cost int
}

// NewService creates a Service with the production cost.
func NewService() *Service {
	return &Service{cost: defaultCost}
}

// NewServiceWithCost creates a Service with a custom cost. Intended for tests.
func NewServiceWithCost(cost int) *Service {
	return &Service{cost: cost}
}

// Hash hashes the given plaintext password.
// bcrypt silently truncates inputs beyond 72 bytes; reject them instead.
func (s *Service) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("password: must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), s.cost)
	if err != nil {
		return "", fmt.Errorf("password: hashing failed: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext password against a stored hash. Returns
// ErrMismatch when they differ.
func (s *Service) Verify(hash, plaintext string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return fmt.Errorf("password: comparing hash: %w", err)
	}
	return nil
}
