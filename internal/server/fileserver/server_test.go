package fileserver

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"net/http"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/yndnr/pwapreview/internal/infra/tlscert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	})
}

func TestNew(t *testing.T) {
	s := New(":8000", okHandler())
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer == nil {
		t.Error("httpServer is nil")
	}
	if s.httpServer.Handler == nil {
		t.Error("httpServer.Handler is nil")
	}
	if s.Addr() != nil {
		t.Error("Addr() should be nil before Listen")
	}
	if s.TLS() {
		t.Error("TLS() should be false without WithTLSConfig")
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	s := New("127.0.0.1:0", okHandler())
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	resp, err := http.Get("http://" + s.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET error = %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for Serve to return")
	}
}

func TestServer_Listen_AddrInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen error = %v", err)
	}
	defer ln.Close()

	s := New(ln.Addr().String(), okHandler())
	err = s.Listen()
	if err == nil {
		s.Close()
		t.Fatal("Listen() on a bound port should fail")
	}
	if !errors.Is(err, ErrAddrInUse) {
		t.Errorf("errors.Is(err, ErrAddrInUse) = false, err = %v", err)
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		t.Errorf("errors.Is(err, syscall.EADDRINUSE) = false, err = %v", err)
	}
	if s.Addr() != nil {
		t.Error("no listener should exist after a failed bind")
	}
}

func TestServer_Listen_OtherError(t *testing.T) {
	s := New("127.0.0.1:notaport", okHandler())
	err := s.Listen()
	if err == nil {
		t.Fatal("Listen() should fail on an invalid address")
	}
	if errors.Is(err, ErrAddrInUse) {
		t.Errorf("invalid address should not be reported as in use: %v", err)
	}
}

func TestServer_CloseWithoutServe(t *testing.T) {
	s := New("127.0.0.1:0", okHandler())
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := s.Addr().String()

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	// The port must be free again.
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		t.Fatalf("port not released after Close: %v", err)
	}
	ln.Close()
}

func TestServer_TLS(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := tlscert.Create(fs, "/server.crt", "/server.key", tlscert.Options{
		CommonName: "127.0.0.1",
		Hosts:      []string{"localhost"},
	}); err != nil {
		t.Fatalf("tlscert.Create error = %v", err)
	}
	cert, err := tlscert.LoadKeyPair(fs, "/server.crt", "/server.key")
	if err != nil {
		t.Fatalf("LoadKeyPair error = %v", err)
	}

	s := New("127.0.0.1:0", okHandler(), WithTLSConfig(tlscert.ServerConfig(cert)))
	if !s.TLS() {
		t.Error("TLS() should be true")
	}
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	go s.Serve()
	defer s.Close()

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}}
	resp, err := client.Get("https://" + s.Addr().String() + "/")
	if err != nil {
		t.Fatalf("HTTPS GET error = %v", err)
	}
	defer resp.Body.Close()
	if resp.TLS == nil {
		t.Error("response was not served over TLS")
	}
}
