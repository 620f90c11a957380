package xrif

import "fmt"

// Error is the signed error-code type returned by every core XRIF operation.
// Codes are part of the wire-level contract and must stay stable across
// versions, mirroring the C library's xrif_error_t.
type Error int

const (
	NoError           Error = 0
	ErrNullPtr        Error = -5
	ErrNotSetup       Error = -10
	ErrInvalidSize    Error = -20
	ErrInvalidType    Error = -22
	ErrInsufficient   Error = -25
	ErrMalloc         Error = -30
	ErrNotImplemented Error = -100
	ErrBadHeader      Error = -1000
	ErrWrongVersion   Error = -1010
	ErrBadArg         Error = -1020
	ErrFailure        Error = -1030
	ErrInvalidConfig  Error = -1040
	ErrLibErr         Error = -1050
)

var errStrings = map[Error]string{
	NoError:           "no error",
	ErrNullPtr:        "null pointer",
	ErrNotSetup:       "handle not set up",
	ErrInvalidSize:    "invalid size",
	ErrInvalidType:    "invalid type code",
	ErrInsufficient:   "insufficient buffer size",
	ErrMalloc:         "allocation failure",
	ErrNotImplemented: "not implemented for this configuration",
	ErrBadHeader:      "bad header magic",
	ErrWrongVersion:   "wrong header version",
	ErrBadArg:         "bad argument",
	ErrFailure:        "failure",
	ErrInvalidConfig:  "invalid backend configuration",
	ErrLibErr:         "backend library error",
}

func (e Error) Error() string {
	if s, ok := errStrings[e]; ok {
		return s
	}
	return fmt.Sprintf("xrif error %d", int(e))
}

// Is reports whether err is an Error carrying the same code as e, so that
// errors.Is can match codes.
func (e Error) Is(err error) bool {
	other, ok := err.(Error)
	return ok && other == e
}

// libErr wraps a backend-reported error, preserving XRIF's rule that backend
// failures surface as ErrLibErr combined with the backend's own message.
type libErr struct {
	backend string
	cause   error
}

func (e *libErr) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrLibErr, e.backend, e.cause)
}

func (e *libErr) Unwrap() error { return e.cause }

func wrapLibErr(backend string, cause error) error {
	if cause == nil {
		return nil
	}
	return &libErr{backend: backend, cause: cause}
}
