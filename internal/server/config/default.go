package config

import "time"

// Default configuration values.
const (
	DefaultRoot = "."

	DefaultHTTPAddr     = ":8000"
	DefaultHTTPSAddr    = ":8443"
	DefaultFallbackAddr = ":8080"

	DefaultCertFile = "server.crt"
	DefaultKeyFile  = "server.key"
	DefaultValidFor = 24 * time.Hour

	DefaultShutdownTimeout = 5 * time.Second

	DefaultHTTPPage  = "test_notifications_standalone.html"
	DefaultHTTPSPage = "test_pwa_notifications.html"

	DefaultWatchDebounce = 300 * time.Millisecond

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default server configuration.
func Default() *ServerConfig {
	return &ServerConfig{
		Root: DefaultRoot,
		Server: ServerSection{
			HTTP: HTTPConfig{
				Addr: DefaultHTTPAddr,
			},
			HTTPS: HTTPSConfig{
				Addr:     DefaultHTTPSAddr,
				CertFile: DefaultCertFile,
				KeyFile:  DefaultKeyFile,
				ValidFor: DefaultValidFor,
			},
			Fallback: FallbackConfig{
				Addr: DefaultFallbackAddr,
			},
			ShutdownTimeout: DefaultShutdownTimeout,
			Gzip:            true,
		},
		Page: PageSection{
			HTTP:  DefaultHTTPPage,
			HTTPS: DefaultHTTPSPage,
		},
		Watch: WatchSection{
			Enabled:  true,
			Debounce: DefaultWatchDebounce,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Console: ConsoleSection{
			Color: true,
		},
	}
}
