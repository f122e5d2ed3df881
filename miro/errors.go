package miro

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrUnauthorized matches (via errors.Is) any TransportError caused by a
// rejected credential.
var ErrUnauthorized = errors.New("miro: credential rejected")

// ValidationError reports malformed or out-of-range parameters. No request is
// sent when one is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Reason
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// TransportError is a non-success HTTP response from the remote service.
type TransportError struct {
	Method     string
	Path       string
	StatusCode int
	Status     string
	// Code and Message come from the service's own error document when present.
	Code    string
	Message string
	Body    string
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("miro %s %s failed: HTTP %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// IsAuth reports whether the credential was rejected.
func (e *TransportError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func (e *TransportError) Is(target error) bool {
	return target == ErrUnauthorized && e.IsAuth()
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsTransport extracts a TransportError from err.
func AsTransport(err error) (*TransportError, bool) {
	var te *TransportError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}

type remoteError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func parseTransportError(method, path string, resp *http.Response) *TransportError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	te := &TransportError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       strings.TrimSpace(string(body)),
	}
	var remote remoteError
	if err := json.Unmarshal(body, &remote); err == nil {
		te.Code = remote.Code
		te.Message = remote.Message
	}
	if te.Message == "" {
		te.Message = te.Body
	}
	if te.Message == "" {
		te.Message = http.StatusText(resp.StatusCode)
	}
	return te
}
