package generator

import (
	"crypto/rand"
	"encoding/hex"
)

// RandomCode returns a random hex code of the given length.
func RandomCode(length int) (string, error) {
	bytes := make([]byte, (length+1)/2)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes)[:length], nil
}
