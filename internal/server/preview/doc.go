// Package preview runs the two preview servers.
//
// RunHTTP serves the root over plain HTTP. RunHTTPS makes sure a
// self-signed certificate pair exists in the root, serves over TLS, and
// on any failure falls back to plain HTTP on a second port in the same
// process. Both block until the context is cancelled.
//
// Every failure is printed to the operator console before it is returned;
// callers use Reported to avoid printing it twice.
//
// State transitions:
//
//	NotServing -> BootstrappingCert -> Serving -> StoppedClean | StoppedError
//	                                           -> FallbackServing -> StoppedClean | StoppedError
//
// The HTTP variant skips BootstrappingCert and FallbackServing.
package preview
