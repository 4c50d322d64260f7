// Package nook is a client for the e-book vendor's reading-device services:
// cookie-based sign-in, library sync, per-title license retrieval, binary
// download and the credit-card-hash lookup used by EPUB decryption tools.
package nook

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotAuthenticated is returned when an operation needs a live session and
// the session is not authenticated, or when the vendor reports that the
// session cookies are no longer accepted.
var ErrNotAuthenticated = errors.New("nook: not authenticated")

// Sentinel errors for HTTP status code classification.
// Use errors.Is(err, nook.ErrNotFound) to check.
var (
	ErrBadRequest   = errors.New("nook: bad request")
	ErrUnauthorized = errors.New("nook: unauthorized")
	ErrForbidden    = errors.New("nook: forbidden")
	ErrNotFound     = errors.New("nook: not found")
	ErrServerError  = errors.New("nook: server error")
	ErrUnexpected   = errors.New("nook: unexpected status")
)

// HTTPError wraps a sentinel error with the HTTP status code and the response
// body for debugging.
type HTTPError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error // sentinel, for errors.Is()
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("nook: %s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

// ServerError is a business error the vendor embedded in an otherwise
// well-formed response. Message is passed through verbatim.
type ServerError struct {
	Op      string
	Code    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("nook: %s: server error %s: %s", e.Op, e.Code, e.Message)
	}

	return fmt.Sprintf("nook: %s: server error: %s", e.Op, e.Message)
}

// ProtocolError reports a response that parsed but lacks a node the client
// depends on, which means the vendor schema changed under us.
type ProtocolError struct {
	Op    string
	Field string
	Err   error
}

func (e *ProtocolError) Error() string {
	switch {
	case e.Field != "" && e.Err != nil:
		return fmt.Sprintf("nook: %s: unexpected response at %s: %v", e.Op, e.Field, e.Err)
	case e.Field != "":
		return fmt.Sprintf("nook: %s: unexpected response: missing %s", e.Op, e.Field)
	default:
		return fmt.Sprintf("nook: %s: unexpected response: %v", e.Op, e.Err)
	}
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-2xx HTTP status code to a sentinel error.
func classifyStatus(code int) error {
	switch code {
	case http.StatusBadRequest:
		return ErrBadRequest
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		if code >= http.StatusInternalServerError {
			return ErrServerError
		}

		return ErrUnexpected
	}
}
