package credentials

import (
	"golang.org/x/crypto/bcrypt"
)

const hashVersionBcrypt = "bcrypt"

// hashPassword hashes a plaintext password using bcrypt.
func hashPassword(password string) (hash string, version string, err error) {
	bytes, err := bcrypt.GenerateFromPassword(
		[]byte(password),
		bcrypt.DefaultCost,
	)
	if err != nil {
		return "", "", err
	}

	return string(bytes), hashVersionBcrypt, nil
}

// verifyPassword compares a plaintext password with the stored hash.
func verifyPassword(hash string, password string) error {
	return bcrypt.CompareHashAndPassword(
		[]byte(hash),
		[]byte(password),
	)
}
