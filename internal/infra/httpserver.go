package infra

import (
	"context"
	"net"
	"net/http"
	"time"
)

// HTTPServer bundles an http.Server with graceful lifecycle helpers.
type HTTPServer struct {
	srv *http.Server
}

// NewHTTPServer builds the service listener. The write timeout stays at the
// configured value, which defaults to zero: progress streams hold their
// connection open for the full lifetime of a generation, so slow-client
// protection relies on the read and header timeouts instead.
func NewHTTPServer(cfg *Config, handler http.Handler) *HTTPServer {
	return &HTTPServer{
		srv: &http.Server{
			Addr:              net.JoinHostPort("", cfg.Port),
			Handler:           handler,
			ReadTimeout:       cfg.HTTPReadTimeout,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      cfg.HTTPWriteTimeout,
			IdleTimeout:       cfg.HTTPIdleTimeout,
			MaxHeaderBytes:    1 << 20,
		},
	}
}

// Addr reports the listen address.
func (s *HTTPServer) Addr() string {
	if s == nil || s.srv == nil {
		return ""
	}
	return s.srv.Addr
}

// Start blocks serving requests until the listener closes.
func (s *HTTPServer) Start() error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.ListenAndServe()
}

// Shutdown drains in-flight requests until ctx expires.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s == nil || s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
