package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// Default hasher to share between services that hash or compare passwords
var DefaultHasher = BcryptHasher{}

// Bcrypt password hasher
// Password is pre hashed with sha256, so bcrypt 72 byte limit never bites
type BcryptHasher struct{}

func (h BcryptHasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	hash, err := bcrypt.GenerateFromPassword(sum[:], bcrypt.DefaultCost)
	return string(hash), err
}

func (h BcryptHasher) Compare(hashedPassword string, password string) error {
	sum := sha256.Sum256([]byte(password))
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), sum[:])
}
