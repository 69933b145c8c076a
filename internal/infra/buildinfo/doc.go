// Package buildinfo exposes build information for the pwapreview commands.
//
// Values are injected at link time:
//
//   - Version: semantic version (e.g., "1.0.0")
//   - Commit: git commit hash
//   - BuildTime: build timestamp
//
// Usage:
//
//	go build -ldflags "-X github.com/yndnr/pwapreview/internal/infra/buildinfo.Version=1.0.0"
package buildinfo
