package fileserver

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"syscall"
)

// ErrAddrInUse is returned by Listen when the port is already bound.
var ErrAddrInUse = errors.New("fileserver: address already in use")

// Server owns one listening socket and the http.Server serving it.
type Server struct {
	httpServer *http.Server
	tlsConfig  *tls.Config

	mu       sync.Mutex
	listener net.Listener
}

// Option configures a Server.
type Option func(*Server)

// WithTLSConfig serves TLS on the listener using cfg.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(s *Server) {
		s.tlsConfig = cfg
		s.httpServer.TLSConfig = cfg
	}
}

// WithLogger routes http.Server internal errors (TLS handshake failures,
// accept errors) to l at warn level.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.httpServer.ErrorLog = slog.NewLogLogger(l.Handler(), slog.LevelWarn)
		}
	}
}

// New creates a server for addr. No socket is opened until Listen or Serve.
func New(addr string, handler http.Handler, opts ...Option) *Server {
	s := &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: handler,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the TCP socket. A port that is already bound yields an
// error matching both ErrAddrInUse and syscall.EADDRINUSE.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}

	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		if errors.Is(err, syscall.EADDRINUSE) {
			return fmt.Errorf("%w: %s: %w", ErrAddrInUse, s.httpServer.Addr, err)
		}
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	if s.tlsConfig != nil {
		ln = tls.NewListener(ln, s.tlsConfig)
	}
	s.listener = ln
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// TLS reports whether the server speaks TLS.
func (s *Server) TLS() bool {
	return s.tlsConfig != nil
}

// Serve accepts connections until Shutdown or Close. It binds first when
// Listen has not been called. A graceful stop returns nil.
func (s *Server) Serve() error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", ln.Addr(), err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and releases the socket.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	return errors.Join(err, s.closeListener())
}

// Close closes the server and the socket immediately.
func (s *Server) Close() error {
	err := s.httpServer.Close()
	return errors.Join(err, s.closeListener())
}

// closeListener releases a socket that was bound but never served.
func (s *Server) closeListener() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener == nil {
		return nil
	}
	if err := s.listener.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}
