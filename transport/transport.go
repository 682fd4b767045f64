package transport

import (
	"context"
)

// Capabilities describes what a Transport can do.
type Capabilities struct {
	// TLS is false for engines built without TLS support.
	TLS bool
}

// HeaderFunc receives each raw response header line (status line included)
// in arrival order.
type HeaderFunc func(line string)

// Result is the outcome of a successful exchange.
type Result struct {
	StatusCode int
	Body       []byte
}

// Transport performs a single HTTP exchange.
//
// Execute must call onHeader for the status line and every header line
// before returning. It must not retry and must not follow redirects.
// Failures are returned as *Error.
type Transport interface {
	Name() string
	Capabilities() Capabilities
	Execute(ctx context.Context, opts *Options, onHeader HeaderFunc) (*Result, error)
}

// DefaultFormContentType is sent with a body when the caller gave no
// Content-Type, matching what libcurl does for POSTFIELDS.
const DefaultFormContentType = "application/x-www-form-urlencoded"
