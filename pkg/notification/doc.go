// Package notification provides a small registry of notice templates and
// pluggable delivery channels. Templates are html/template sources keyed by
// notice type and delivery system.
package notification
