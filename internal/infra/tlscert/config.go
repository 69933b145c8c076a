package tlscert

import "crypto/tls"

// ServerConfig returns a server TLS config presenting cert.
//
// Client certificates are neither requested nor verified. This is only
// suitable for previewing on a trusted local network.
func ServerConfig(cert tls.Certificate) *tls.Config {
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.NoClientCert,
		MinVersion:   tls.VersionTLS12,
	}
}
