// Package verification implements the account verification workflow: issuing
// single-use tokens, consuming them, and expiring them through one-shot
// scheduled jobs.
//
// Re-issuing a token both replaces the scheduled expiration job and changes
// the stored token value, and the expiration job clears the token only if it
// still matches the value it was armed with. Either guard alone is enough to
// keep a stale job from clearing a newer token.
package verification
