package api

import "errors"

// transportErrMsg is the user-facing text for failures where no usable
// HTTP response was obtained. It is intentionally generic; the underlying
// cause stays available through errors.Unwrap.
const transportErrMsg = "Network error. Please try again."

// TransportError covers unreachable hosts, aborted requests and other
// failures below the HTTP layer. Never retried automatically.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return transportErrMsg }
func (e *TransportError) Unwrap() error { return e.Err }

// ServerError is a non-2xx response with a structured body. Message holds
// the flattened error text and is shown to the user verbatim.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string { return e.Message }

// ParseError is a 2xx response whose body could not be decoded. Kept
// distinct from ServerError: the operation may well have succeeded
// server-side.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "failed to parse server response" }
func (e *ParseError) Unwrap() error { return e.Err }

// ErrEmptyDownload marks a 2xx binary download with a zero-byte body.
var ErrEmptyDownload = errors.New("downloaded file is empty")
