// Package fileserver provides the static file server behind both preview
// commands.
//
// This package wraps stdlib net/http around an afero filesystem:
//
//   - server.go: listener ownership, optional TLS, graceful shutdown
//   - handler.go: file serving, hidden files, service-worker headers, gzip
//   - middleware.go: Chain, RequestID, AccessLog, Recover
//
// Binding is split from serving so callers learn about an occupied port
// (ErrAddrInUse) before anything is announced to the operator.
package fileserver
