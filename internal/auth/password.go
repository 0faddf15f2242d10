package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the fixed bcrypt work factor for stored credentials.
// Changing it only affects newly hashed passwords; existing hashes keep
// verifying at the cost they were created with.
const passwordCost = 10

// HashPassword derives the stored bcrypt hash for a plaintext password.
// The plaintext is never persisted or logged anywhere in the service.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against the stored hash.
// A nil return means they match.
func VerifyPassword(hash, password string) error {
	if hash == "" {
		return errors.New("password hash is empty")
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
