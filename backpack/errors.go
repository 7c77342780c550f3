package backpack

import (
	"encoding/json"
	"fmt"
	"github.com/pkg/errors"
)

var ErrNoPrivateKey = errors.New("no private key configured")

// KeyLoadError means the private key material could not be loaded.
type KeyLoadError struct {
	Reason string
	Err    error
}

func (e *KeyLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("load private key: %s: %s", e.Reason, e.Err)
	}
	return "load private key: " + e.Reason
}

func (e *KeyLoadError) Unwrap() error { return e.Err }
func (e *KeyLoadError) Cause() error  { return e.Err }

// SigningError means the key was loaded but producing the signature failed.
type SigningError struct {
	Instruction string
	Err         error
}

func (e *SigningError) Error() string {
	return fmt.Sprintf("sign %s: %s", e.Instruction, e.Err)
}

func (e *SigningError) Unwrap() error { return e.Err }
func (e *SigningError) Cause() error  { return e.Err }

// TransportError wraps failures below HTTP: dns, connect, timeout, cancelled context.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
func (e *TransportError) Cause() error  { return e.Err }

// HTTPStatusError is returned for any non-2xx response. Code and Message are filled when the
// body is the exchange's JSON error document.
type HTTPStatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       []byte

	Code    string
	Message string
}

func newHTTPStatusError(url string, statusCode int, status string, body []byte) *HTTPStatusError {
	e := &HTTPStatusError{
		URL:        url,
		StatusCode: statusCode,
		Status:     status,
		Body:       body,
	}
	var apiErr struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &apiErr) == nil {
		e.Code = apiErr.Code
		e.Message = apiErr.Message
	}
	return e
}

func (e *HTTPStatusError) Error() string {
	if e.Code != "" || e.Message != "" {
		return fmt.Sprintf("server responded with a %d status code (code: %s, message: %s)", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server responded with a %d status code", e.StatusCode)
}

// ValidationError is returned before any I/O when an argument is out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
