// Package httpserver runs the API's HTTP listener with sane timeouts
// and graceful shutdown on context cancellation or OS signals.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

var (
	// ErrServerFailed indicates the listener failed to start or crashed.
	ErrServerFailed = errors.New("http server failed")
	// ErrShutdownFailed indicates graceful shutdown did not complete in time.
	ErrShutdownFailed = errors.New("http server shutdown failed")
)

// Config carries the listener settings loaded from the environment.
type Config struct {
	Addr            string        `env:"HTTP_ADDR" envDefault:":8080"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Server wraps http.Server with lifecycle management. Zero value is not
// usable; construct with New.
type Server struct {
	cfg      Config
	log      *slog.Logger
	srv      *http.Server
	mu       sync.Mutex
	shutOnce sync.Once
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger attaches a logger for lifecycle events. Nil loggers are ignored.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// New creates a Server from cfg, filling in defaults for zero values.
func New(cfg Config, opts ...Option) *Server {
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run serves handler until ctx is cancelled, SIGINT/SIGTERM arrives, or
// the listener fails. It blocks and returns nil on clean shutdown.
func (s *Server) Run(ctx context.Context, handler http.Handler) error {
	if handler == nil {
		return errors.Join(ErrServerFailed, errors.New("nil handler"))
	}

	s.mu.Lock()
	if s.srv != nil {
		s.mu.Unlock()
		return errors.Join(ErrServerFailed, errors.New("already running"))
	}
	s.srv = &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}
	s.mu.Unlock()

	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", slog.String("addr", s.cfg.Addr))
		errCh <- s.srv.ListenAndServe()
	}()

	var runErr error
	select {
	case <-signalCtx.Done():
		runErr = s.Shutdown(context.Background())
		<-errCh
	case err := <-errCh:
		runErr = err
	}

	if runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
		return errors.Join(ErrServerFailed, runErr)
	}
	return nil
}

// Shutdown drains in-flight requests within the configured timeout.
// Safe to call multiple times and concurrently with Run.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutOnce.Do(func() {
		s.mu.Lock()
		srv := s.srv
		s.mu.Unlock()
		if srv == nil {
			return
		}

		shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()

		s.log.Info("http server shutting down")
		err = srv.Shutdown(shutdownCtx)
	})

	if err != nil {
		return errors.Join(ErrShutdownFailed, err)
	}
	return nil
}
