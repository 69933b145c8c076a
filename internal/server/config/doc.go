// Package config provides the preview server configuration.
//
// This package defines the configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (address syntax, port conflicts, root directory)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files, environment variables, and flags. The result
// is an explicit value handed to the servers; nothing here is global.
package config
