// Package user is the credential store for simple-ads: account records with
// hashed credentials and the single nullable verification token per user.
//
// The repository contract guarantees row-level atomicity for the token
// operations. ConsumeVerificationToken matches and consumes a token in one
// update, and ClearVerificationToken only clears when the stored token still
// equals the one the expiry job was armed with, so a verify and an expiry
// fire racing on the same token always resolve to exactly one winner.
//
// Two implementations are provided: PostgresUserRepository on pgx and
// InMemoryUserRepository for tests and database-free runs.
package user
