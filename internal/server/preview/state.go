package preview

import (
	"errors"
	"net"
)

// Mode selects the server variant.
type Mode int

const (
	// ModeHTTP serves plain HTTP.
	ModeHTTP Mode = iota
	// ModeHTTPS serves self-signed HTTPS with a plain HTTP fallback.
	ModeHTTPS
)

func (m Mode) String() string {
	switch m {
	case ModeHTTP:
		return "http"
	case ModeHTTPS:
		return "https"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a preview server.
type State int

const (
	// NotServing is the initial state.
	NotServing State = iota
	// BootstrappingCert checks, generates and loads the certificate pair.
	BootstrappingCert
	// Serving means the primary listener is bound.
	Serving
	// FallbackServing means HTTPS failed and plain HTTP is bound instead.
	FallbackServing
	// StoppedClean follows an interrupt.
	StoppedClean
	// StoppedError follows an error that was not recovered.
	StoppedError
)

func (s State) String() string {
	switch s {
	case NotServing:
		return "not_serving"
	case BootstrappingCert:
		return "bootstrapping_cert"
	case Serving:
		return "serving"
	case FallbackServing:
		return "fallback_serving"
	case StoppedClean:
		return "stopped_clean"
	case StoppedError:
		return "stopped_error"
	default:
		return "unknown"
	}
}

// StateFunc observes state transitions. addr is the bound address in the
// serving states and nil otherwise.
type StateFunc func(state State, addr net.Addr)

// reportedError marks an error already printed to the console.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil || Reported(err) {
		return err
	}
	return &reportedError{err: err}
}

// Reported reports whether err was already printed to the console.
func Reported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
