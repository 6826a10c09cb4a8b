package server

import "context"

// Server is a transport whose lifetime is bound to a context.
type Server interface {
	// Run serves until ctx is done, then shuts down gracefully. It returns
	// early with an error when serving fails.
	Run(ctx context.Context) error
}
