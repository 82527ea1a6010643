package infra

import (
	"context"
	"errors"
	stdlog "log"
	"net"
	"net/http"
	"time"
)

// HTTPServer serves the API and drains it when its context ends.
type HTTPServer struct {
	server *http.Server
	drain  time.Duration
	logger Logger
}

// NewHTTPServer creates a configured HTTP server. net/http's own error log
// is routed through logger.
func NewHTTPServer(cfg *Config, handler http.Handler, logger Logger) *HTTPServer {
	httpLog := logger.With().Str("component", "http").Logger()
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ErrorLog:          stdlog.New(httpLog, "", 0),
	}
	drain := cfg.HTTPIdleTimeout
	if drain <= 0 {
		drain = 30 * time.Second
	}
	return &HTTPServer{server: srv, drain: drain, logger: httpLog}
}

// Run listens until ctx is cancelled, then shuts down gracefully. A clean
// shutdown returns nil.
func (s *HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.server.Serve(ln) }()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("API listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.drain)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}
