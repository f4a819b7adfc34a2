// Package scheduler provides the delayed expiration jobs for verification
// tokens. See ExpiryScheduler for the semantics; pkg/verification arms and
// re-arms the jobs.
package scheduler
