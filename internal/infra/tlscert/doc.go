// Package tlscert manages the throwaway certificate of the HTTPS preview.
//
//   - keypair.go: presence check, self-signed generation, loading
//   - config.go: server tls.Config built from the loaded pair
//
// Files are read and written through an afero.Fs rooted at the served
// directory. A pair that is present is reused as-is: nothing checks its
// expiry or subject.
package tlscert
