package login

// PasswordHasher hashes and verifies passwords. The encoded hash embeds the
// scheme and its parameters, so Verify can dispatch on the stored value.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
}
