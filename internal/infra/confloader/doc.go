// Package confloader loads configuration from layered sources.
//
// It wraps koanf. Later sources override earlier ones:
//
//  1. Default values (already present in the target struct)
//  2. YAML configuration file
//  3. Environment variables (PWAPREVIEW_ prefix)
//  4. Overrides (command-line flags)
//
// Environment keys map onto dotted config keys: PWAPREVIEW_SERVER_HTTP_ADDR
// becomes server.http.addr. A double underscore keeps a literal underscore,
// so PWAPREVIEW_SERVER_SHUTDOWN__TIMEOUT becomes server.shutdown_timeout.
package confloader
