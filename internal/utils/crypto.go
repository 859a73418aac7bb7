// internal/utils/crypto.go
package utils

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher turns a submitted password into its stored form and checks
// a login attempt against it.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

func NewPasswordHasher(mode string) (PasswordHasher, error) {
	switch mode {
	case "", "plaintext":
		return plaintextHasher{}, nil
	case "bcrypt":
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	}
	return nil, fmt.Errorf("unsupported password mode %q", mode)
}

// plaintextHasher stores passwords as submitted and compares exact values.
type plaintextHasher struct{}

func (plaintextHasher) Hash(password string) (string, error) {
	return password, nil
}

func (plaintextHasher) Matches(stored, password string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(password)) == 1
}

type bcryptHasher struct {
	cost int
}

func (h bcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (bcryptHasher) Matches(stored, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
}
