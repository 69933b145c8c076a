package config

import "time"

// ServerConfig is the root configuration shared by both preview commands.
type ServerConfig struct {
	// Root is the directory served over HTTP(S).
	Root    string         `koanf:"root"`
	Server  ServerSection  `koanf:"server"`
	Page    PageSection    `koanf:"page"`
	Watch   WatchSection   `koanf:"watch"`
	Metrics MetricsSection `koanf:"metrics"`
	Log     LogSection     `koanf:"log"`
	Console ConsoleSection `koanf:"console"`
}

// ServerSection configures the listeners.
type ServerSection struct {
	HTTP     HTTPConfig     `koanf:"http"`
	HTTPS    HTTPSConfig    `koanf:"https"`
	Fallback FallbackConfig `koanf:"fallback"`

	// ShutdownTimeout bounds graceful shutdown after an interrupt.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// Gzip enables response compression for clients that accept it.
	Gzip bool `koanf:"gzip"`
}

// HTTPConfig configures the plain HTTP preview server.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// HTTPSConfig configures the self-signed HTTPS preview server.
type HTTPSConfig struct {
	Addr string `koanf:"addr"`

	// CertFile and KeyFile are relative to Root.
	CertFile string `koanf:"cert_file"`
	KeyFile  string `koanf:"key_file"`

	// CommonName overrides the certificate subject. Empty means the
	// resolved LAN address.
	CommonName string `koanf:"common_name"`

	// ValidFor is the lifetime of a generated certificate.
	ValidFor time.Duration `koanf:"valid_for"`
}

// FallbackConfig configures the plain HTTP server used when HTTPS fails.
type FallbackConfig struct {
	Addr string `koanf:"addr"`
}

// PageSection names the test page advertised in each banner.
type PageSection struct {
	HTTP  string `koanf:"http"`
	HTTPS string `koanf:"https"`
}

// WatchSection configures the content watcher.
type WatchSection struct {
	Enabled  bool          `koanf:"enabled"`
	Debounce time.Duration `koanf:"debounce"`
}

// MetricsSection configures the optional Prometheus listener.
type MetricsSection struct {
	// Addr is the metrics listen address. Empty disables it.
	Addr string `koanf:"addr"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// ConsoleSection configures the operator console.
type ConsoleSection struct {
	Color bool `koanf:"color"`
}
