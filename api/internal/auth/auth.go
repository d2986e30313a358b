package auth

import (
	"crypto/subtle"
	"errors"
	"net/http"
)

// HeaderAPIKey carries the submission secret.
const HeaderAPIKey = "x-api-key"

var (
	ErrNotConfigured = errors.New("submission secret is not configured")
	ErrMissingKey    = errors.New("missing 'x-api-key' header")
	ErrInvalidKey    = errors.New("invalid 'x-api-key' header")
)

// Authorizer decides whether a request may submit audio.
type Authorizer interface {
	Authorize(r *http.Request) error
}

// SharedSecret accepts requests whose x-api-key equals the configured secret.
type SharedSecret string

func (s SharedSecret) Authorize(r *http.Request) error {
	if s == "" {
		return ErrNotConfigured
	}
	key := r.Header.Get(HeaderAPIKey)
	if key == "" {
		return ErrMissingKey
	}
	if subtle.ConstantTimeCompare([]byte(key), []byte(s)) != 1 {
		return ErrInvalidKey
	}
	return nil
}

// Func adapts a plain function to Authorizer.
type Func func(r *http.Request) error

func (f Func) Authorize(r *http.Request) error { return f(r) }
