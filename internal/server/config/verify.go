package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yndnr/pwapreview/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *ServerConfig) error {
	if err := verifyRoot(cfg.Root); err != nil {
		return err
	}
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if cfg.Metrics.Addr != "" {
		if _, err := parsePort("metrics.addr", cfg.Metrics.Addr); err != nil {
			return err
		}
	}
	if cfg.Watch.Enabled && cfg.Watch.Debounce <= 0 {
		return errors.New("watch.debounce must be positive")
	}
	return verifyLog(&cfg.Log)
}

func verifyRoot(root string) error {
	if root == "" {
		return errors.New("root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("root: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("root: %s is not a directory", root)
	}
	return nil
}

func verifyServer(cfg *ServerSection) error {
	if _, err := parsePort("server.http.addr", cfg.HTTP.Addr); err != nil {
		return err
	}
	httpsPort, err := parsePort("server.https.addr", cfg.HTTPS.Addr)
	if err != nil {
		return err
	}
	fallbackPort, err := parsePort("server.fallback.addr", cfg.Fallback.Addr)
	if err != nil {
		return err
	}
	// Port 0 picks an ephemeral port, so two zeros never collide.
	if httpsPort != 0 && httpsPort == fallbackPort {
		return fmt.Errorf("server.https.addr and server.fallback.addr share port %d", httpsPort)
	}

	if err := verifyRelative("server.https.cert_file", cfg.HTTPS.CertFile); err != nil {
		return err
	}
	if err := verifyRelative("server.https.key_file", cfg.HTTPS.KeyFile); err != nil {
		return err
	}
	if filepath.Clean(cfg.HTTPS.CertFile) == filepath.Clean(cfg.HTTPS.KeyFile) {
		return errors.New("server.https.cert_file and server.https.key_file must differ")
	}

	if cfg.HTTPS.ValidFor <= 0 {
		return errors.New("server.https.valid_for must be positive")
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level: unknown level %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("log.format: unknown format %q", cfg.Format)
	}
}

// parsePort checks that addr is host:port with a numeric port and returns it.
func parsePort(key, addr string) (int, error) {
	if addr == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return 0, fmt.Errorf("%s: invalid port %q", key, portStr)
	}
	return port, nil
}

// verifyRelative requires name to stay inside the served root.
func verifyRelative(key, name string) error {
	if name == "" {
		return fmt.Errorf("%s is required", key)
	}
	if filepath.IsAbs(name) {
		return fmt.Errorf("%s: must be relative to root, got %s", key, name)
	}
	clean := filepath.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s: must not escape root, got %s", key, name)
	}
	return nil
}

// PortOf returns the port part of addr, or addr itself when it has none.
func PortOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
