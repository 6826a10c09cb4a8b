// Package server runs HTTP transports bound to a context: serving starts on
// Run and stops gracefully when the context is done.
package server
