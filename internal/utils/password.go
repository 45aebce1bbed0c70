package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Digest returns the lowercase hex SHA-256 of plain.  This is the format of
// the password field in the users file.
func Digest(plain string) string {
	sum := sha256.Sum256([]byte(plain))
	return hex.EncodeToString(sum[:])
}

// HashPassword returns a SHA-256 digest when cost <= 0 and a bcrypt hash
// with the given cost otherwise.
func HashPassword(plain string, cost int) (string, error) {
	if cost <= 0 {
		return Digest(plain), nil
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword compares plain against a stored hash of either format.
func VerifyPassword(hash, plain string) bool {
	if isBcrypt(hash) {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
	}
	return hash == Digest(plain)
}

func isBcrypt(hash string) bool {
	return strings.HasPrefix(hash, "$2a$") || strings.HasPrefix(hash, "$2b$") || strings.HasPrefix(hash, "$2y$")
}
