// Package notice wires the application's notice templates into the
// notification manager and exposes dispatchers used by other services.
package notice
