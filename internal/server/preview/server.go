package preview

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/yndnr/pwapreview/internal/console"
	"github.com/yndnr/pwapreview/internal/infra/netaddr"
	"github.com/yndnr/pwapreview/internal/infra/tlscert"
	"github.com/yndnr/pwapreview/internal/server/config"
	"github.com/yndnr/pwapreview/internal/server/fileserver"
	"github.com/yndnr/pwapreview/internal/telemetry/metric"
)

// Deps are the collaborators of a Server. Zero fields get defaults.
type Deps struct {
	// Fs is the served tree, rooted at "/". Defaults to the OS directory
	// at cfg.Root.
	Fs afero.Fs

	// Console defaults to stdout, coloured per cfg.Console.Color.
	Console *console.Printer

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *metric.Registry

	// LocalIP defaults to netaddr.OutboundIP.
	LocalIP func() string

	// LANAddrs defaults to netaddr.LANAddrs.
	LANAddrs func() []string

	// OnState is optional.
	OnState StateFunc
}

// Server runs one preview variant over a configuration.
type Server struct {
	cfg     *config.ServerConfig
	root    string
	fs      afero.Fs
	console *console.Printer
	logger  *slog.Logger
	metrics *metric.Registry
	localIP func() string
	lan     func() []string
	onState StateFunc

	mu    sync.Mutex
	state State
}

// New creates a server. cfg is expected to have passed config.Verify.
func New(cfg *config.ServerConfig, deps Deps) *Server {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		root = cfg.Root
	}

	s := &Server{
		cfg:     cfg,
		root:    root,
		fs:      deps.Fs,
		console: deps.Console,
		logger:  deps.Logger,
		metrics: deps.Metrics,
		localIP: deps.LocalIP,
		lan:     deps.LANAddrs,
		onState: deps.OnState,
	}
	if s.fs == nil {
		s.fs = afero.NewBasePathFs(afero.NewOsFs(), root)
	}
	if s.console == nil {
		s.console = console.New(os.Stdout, cfg.Console.Color)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.localIP == nil {
		s.localIP = netaddr.OutboundIP
	}
	if s.lan == nil {
		s.lan = netaddr.LANAddrs
	}
	return s
}

// State returns the current state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Server) setState(state State, addr net.Addr) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	attrs := []any{"state", state.String()}
	if addr != nil {
		attrs = append(attrs, "addr", addr.String())
	}
	s.logger.Debug("state changed", attrs...)

	if s.onState != nil {
		s.onState(state, addr)
	}
}

// Run runs the given variant until ctx is cancelled.
func (s *Server) Run(ctx context.Context, mode Mode) error {
	switch mode {
	case ModeHTTP:
		return s.RunHTTP(ctx)
	case ModeHTTPS:
		return s.RunHTTPS(ctx)
	default:
		return fmt.Errorf("preview: unknown mode %d", mode)
	}
}

// RunHTTP serves the root over plain HTTP until ctx is cancelled, which
// returns nil. A bound port returns an error matching
// fileserver.ErrAddrInUse.
func (s *Server) RunHTTP(ctx context.Context) error {
	ip := s.localIP()
	s.console.HTTPIntro(s.root, ip)

	srv := s.newFileServer(s.cfg.Server.HTTP.Addr, "http", nil)
	err := s.serve(ctx, srv, Serving, func(addr net.Addr) {
		s.console.HTTPReady(s.banner(ip, addr, s.cfg.Page.HTTP))
	})
	if err == nil {
		s.console.StoppedHTTP()
		s.setState(StoppedClean, nil)
		return nil
	}

	s.report(err, s.cfg.Server.HTTP.Addr)
	s.setState(StoppedError, nil)
	return reported(err)
}

// RunHTTPS serves the root over TLS until ctx is cancelled. Any failure
// other than the interrupt is printed and the root is served over plain
// HTTP on the fallback address instead.
func (s *Server) RunHTTPS(ctx context.Context) error {
	s.console.HTTPSIntro(s.root)
	ip := s.localIP()

	err := s.serveTLS(ctx, ip)
	if err == nil {
		s.console.StoppedHTTPS()
		s.setState(StoppedClean, nil)
		return nil
	}

	s.console.ServerError(err)
	s.logger.Error("https server failed, falling back to http", "error", err)
	s.metrics.IncFallbacks()
	s.console.Fallback(config.PortOf(s.cfg.Server.Fallback.Addr))

	fallback := s.newFileServer(s.cfg.Server.Fallback.Addr, "fallback", nil)
	err = s.serve(ctx, fallback, FallbackServing, func(addr net.Addr) {
		s.console.FallbackReady(s.banner(ip, addr, s.cfg.Page.HTTPS))
	})
	if err == nil {
		s.console.StoppedHTTPS()
		s.setState(StoppedClean, nil)
		return nil
	}

	s.report(err, s.cfg.Server.Fallback.Addr)
	s.setState(StoppedError, nil)
	return reported(err)
}

func (s *Server) serveTLS(ctx context.Context, ip string) error {
	s.setState(BootstrappingCert, nil)

	cert, err := s.loadOrCreateCert(ip)
	if err != nil {
		return err
	}

	srv := s.newFileServer(s.cfg.Server.HTTPS.Addr, "https", tlscert.ServerConfig(cert))
	return s.serve(ctx, srv, Serving, func(addr net.Addr) {
		s.console.HTTPSReady(s.banner(ip, addr, s.cfg.Page.HTTPS))
	})
}

// loadOrCreateCert generates the pair when either file is missing, then
// loads it. Existing files are trusted as they are.
func (s *Server) loadOrCreateCert(ip string) (tls.Certificate, error) {
	https := s.cfg.Server.HTTPS
	certFile, keyFile := rooted(https.CertFile), rooted(https.KeyFile)

	ok, err := tlscert.Exists(s.fs, certFile, keyFile)
	if err != nil {
		return tls.Certificate{}, err
	}
	if !ok {
		s.console.GeneratingCert()

		cn := https.CommonName
		if cn == "" {
			cn = ip
		}
		opts := tlscert.Options{
			CommonName: cn,
			Hosts:      append([]string{"localhost", "127.0.0.1"}, s.lan()...),
			ValidFor:   https.ValidFor,
		}

		for _, dir := range []string{path.Dir(certFile), path.Dir(keyFile)} {
			if err := s.fs.MkdirAll(dir, 0755); err != nil {
				return tls.Certificate{}, fmt.Errorf("preview: create %s: %w", dir, err)
			}
		}
		if err := tlscert.Create(s.fs, certFile, keyFile, opts); err != nil {
			return tls.Certificate{}, err
		}
		s.metrics.IncCertsGenerated()
		s.logger.Info("generated self-signed certificate",
			"common_name", cn,
			"cert_file", https.CertFile,
			"valid_for", opts.ValidFor,
		)
	}

	return tlscert.LoadKeyPair(s.fs, certFile, keyFile)
}

// serve binds srv, announces it and blocks until ctx is cancelled or
// serving fails. Cancellation shuts down gracefully and returns nil.
func (s *Server) serve(ctx context.Context, srv *fileserver.Server, state State, ready func(net.Addr)) error {
	if err := srv.Listen(); err != nil {
		return err
	}

	addr := srv.Addr()
	s.setState(state, addr)
	s.logger.Info("server listening", "addr", addr.String(), "tls", srv.TLS(), "root", s.root)
	ready(addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("graceful shutdown incomplete, closing", "addr", addr.String(), "error", err)
			srv.Close()
		}
		<-errCh
		return nil
	case err := <-errCh:
		srv.Close()
		return err
	}
}

func (s *Server) newFileServer(addr, listener string, tlsConfig *tls.Config) *fileserver.Server {
	opts := []fileserver.Option{fileserver.WithLogger(s.logger.With("listener", listener))}
	if tlsConfig != nil {
		opts = append(opts, fileserver.WithTLSConfig(tlsConfig))
	}
	return fileserver.New(addr, s.handler(listener), opts...)
}

func (s *Server) handler(listener string) http.Handler {
	l := s.logger.With("listener", listener)

	files := fileserver.NewHandler(fileserver.HandlerConfig{
		Fs:     s.fs,
		Hidden: []string{s.cfg.Server.HTTPS.KeyFile},
		Gzip:   s.cfg.Server.Gzip,
	})
	h := fileserver.Chain(files,
		fileserver.Recover(l),
		fileserver.RequestID(),
		fileserver.AccessLog(l),
	)
	return s.metrics.Instrument(listener, h)
}

func (s *Server) banner(ip string, addr net.Addr, page string) console.Banner {
	_, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		port = addr.String()
	}
	return console.Banner{
		Root:     s.root,
		IP:       ip,
		Port:     port,
		Page:     page,
		LANAddrs: s.lan(),
	}
}

// report prints err for the server configured on addr.
func (s *Server) report(err error, addr string) {
	if errors.Is(err, fileserver.ErrAddrInUse) {
		s.console.PortInUse(config.PortOf(addr))
	} else {
		s.console.ServerError(err)
	}
	s.logger.Error("server stopped with error", "addr", addr, "error", err)
}

// rooted turns a root-relative name into an afero path.
func rooted(name string) string {
	return path.Join("/", filepath.ToSlash(name))
}
