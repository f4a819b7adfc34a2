// Package login provides registration, password authentication, and the JWT
// session plumbing used by the HTTP handlers.
package login
