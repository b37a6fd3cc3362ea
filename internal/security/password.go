package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// bcryptCost defines the bcrypt work factor for admin passwords.
const bcryptCost = 12

// minPasswordLength is enforced when hashing new admin passwords.
const minPasswordLength = 8

// HashPassword hashes an admin password with bcrypt. Passwords shorter
// than the minimum are rejected before hashing.
func HashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("security: password must be at least %d characters", minPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a bcrypt hash with a plaintext password.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
