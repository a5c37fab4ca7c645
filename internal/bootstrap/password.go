package bootstrap

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultPasswordLength is the length of generated admin passwords.
const DefaultPasswordLength = 12

// PasswordAlphabet is the set of characters generated passwords are drawn from.
const PasswordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789" +
	"!@#$%^&*()-_=+"

// GeneratePassword returns a password of exactly length characters chosen
// uniformly, with replacement, from PasswordAlphabet using crypto/rand.
func GeneratePassword(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("password length must be at least 1, got %d", length)
	}

	max := big.NewInt(int64(len(PasswordAlphabet)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		buf[i] = PasswordAlphabet[n.Int64()]
	}

	return string(buf), nil
}
