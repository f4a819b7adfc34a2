// Package admin implements the session-authenticated admin panel endpoints.
package admin
