// Package utils provides secure random string generation shared across
// simple-ads.
//
// All functions are stateless and safe for concurrent use.
package utils
