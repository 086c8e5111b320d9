package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Character classes for generated passwords. Ambiguous glyphs (I, O, l, o, 0,
// 1) are excluded so the password survives being read aloud or retyped.
const (
	passwordLength = 12

	upperChars   = "ABCDEFGHJKLMNPQRSTUVWXYZ"
	lowerChars   = "abcdefghijkmnpqrstuvwxyz"
	digitChars   = "23456789"
	specialChars = "#@$%&*!?"
)

// GenerateStrongPassword builds a 12-character one-time password containing at
// least one character from each class. One character is drawn per class, the
// remaining eight come uniformly from the union, and the result is shuffled
// with a Fisher-Yates permutation so the guaranteed characters do not sit in
// fixed positions.
func GenerateStrongPassword() (string, error) {
	classes := []string{upperChars, lowerChars, digitChars, specialChars}
	union := upperChars + lowerChars + digitChars + specialChars

	password := make([]byte, 0, passwordLength)
	for _, class := range classes {
		c, err := randomChar(class)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}
	for len(password) < passwordLength {
		c, err := randomChar(union)
		if err != nil {
			return "", err
		}
		password = append(password, c)
	}

	for i := len(password) - 1; i > 0; i-- {
		j, err := randomIndex(i + 1)
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func randomChar(pool string) (byte, error) {
	i, err := randomIndex(len(pool))
	if err != nil {
		return 0, err
	}
	return pool[i], nil
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("generate password: %w", err)
	}
	return int(v.Int64()), nil
}
