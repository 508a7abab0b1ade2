package clients

import (
	"errors"
	"fmt"
)

// ErrModuleNotFound is returned when the remote service reports that a module
// id does not exist.
var ErrModuleNotFound = errors.New("module not found")

// TransportError covers every network or protocol failure against the remote
// service: connection errors, timeouts, non-2xx responses, malformed payloads.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("monitoring client: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
