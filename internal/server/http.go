package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/MKhiriev/go-photo-sync/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type HTTPServer struct {
	address string
	server  *http.Server
	logger  *logger.Logger
}

func NewHTTPServer(address string, handler http.Handler, log *logger.Logger) *HTTPServer {
	return &HTTPServer{
		address: address,
		server: &http.Server{
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		logger: log,
	}
}

func (h *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.address)
	if err != nil {
		return fmt.Errorf("error listening on %s: %w", h.address, err)
	}
	return h.Serve(ctx, ln)
}

// Serve is Run over an existing listener.
func (h *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		h.logger.Info().Str("func", "HTTPServer.Serve").Str("address", ln.Addr().String()).Msg("Launching HTTP server")
		errCh <- h.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("HTTP server Serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := h.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}
	h.logger.Info().Str("func", "HTTPServer.Serve").Msg("HTTP server shut down gracefully")
	return nil
}
