package login

import "strings"

// HashPassword hashes with the current scheme (Argon2id).
func HashPassword(password string) (string, error) {
	return NewArgon2Hasher().Hash(password)
}

// CheckPasswordHash verifies a password against a stored hash, dispatching on
// the hash's scheme prefix.
func CheckPasswordHash(password, encodedHash string) (bool, error) {
	if strings.HasPrefix(encodedHash, "$argon2id$") {
		return NewArgon2Hasher().Verify(password, encodedHash)
	}
	return NewBcryptHasher().Verify(password, encodedHash)
}
