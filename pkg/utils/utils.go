package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// GenerateRandomString returns a hex string of length n built from crypto/rand.
func GenerateRandomString(n int) string {
	b := make([]byte, (n+1)/2)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)[:n]
}
