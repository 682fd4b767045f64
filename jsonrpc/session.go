package jsonrpc

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/validation"
)

// Supported protocol versions.
const (
	Version1 = "1.0"
	Version2 = "2.0"
)

// Versions lists the accepted specification versions.
var Versions = []string{Version1, Version2}

// Session targets one JSON-RPC server and shares its TLS and auth
// settings with every request it creates. Not safe for concurrent
// mutation.
type Session struct {
	spec   string
	host   string
	port   int
	tls    *httpclient.TLSConfig
	auth   *httpclient.AuthConfig
	client *httpclient.Client
}

// New creates a session for the given specification version.
// An empty version means 1.0.
func New(version string) (*Session, error) {
	if version == "" {
		version = Version1
	}
	if err := validation.New().OneOf("version", version, Versions).Validate(); err != nil {
		return nil, err
	}
	return &Session{spec: version}, nil
}

// Server sets the target host and port.
func (s *Session) Server(host string, port int) *Session {
	s.host = host
	s.port = port
	return s
}

// WithClient selects the client used by Call. The default client is used otherwise.
func (s *Session) WithClient(c *httpclient.Client) *Session {
	s.client = c
	return s
}

// Specification returns the protocol version.
func (s *Session) Specification() string { return s.spec }

// Version is an alias for Specification.
func (s *Session) Version() string { return s.spec }

// Host returns the server host.
func (s *Session) Host() string { return s.host }

// Port returns the server port.
func (s *Session) Port() int { return s.port }

// URL returns the server base URL. The scheme is https once TLS has been
// configured through TLS().
func (s *Session) URL() string {
	scheme := "http"
	if s.tls != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, s.host, s.port)
}

// TLS returns the shared TLS configuration, creating it on first use.
func (s *Session) TLS() *httpclient.TLSConfig {
	if s.tls == nil {
		s.tls = httpclient.NewTLSConfig()
	}
	return s.tls
}

// Auth returns the shared authentication configuration, creating it on first use.
func (s *Session) Auth() *httpclient.AuthConfig {
	if s.auth == nil {
		s.auth = httpclient.NewAuthConfig()
	}
	return s.auth
}

// Get creates a GET request for endpoint.
func (s *Session) Get(endpoint string) (*httpclient.Request, error) {
	return s.request(endpoint, http.MethodGet)
}

// Post creates a POST request for endpoint.
func (s *Session) Post(endpoint string) (*httpclient.Request, error) {
	return s.request(endpoint, http.MethodPost)
}

// Put creates a PUT request for endpoint.
func (s *Session) Put(endpoint string) (*httpclient.Request, error) {
	return s.request(endpoint, http.MethodPut)
}

// Delete creates a DELETE request for endpoint.
func (s *Session) Delete(endpoint string) (*httpclient.Request, error) {
	return s.request(endpoint, http.MethodDelete)
}

func (s *Session) request(endpoint, method string) (*httpclient.Request, error) {
	req, err := httpclient.NewRequest(s.URL()+"/"+strings.TrimLeft(endpoint, "/"), method)
	if err != nil {
		return nil, err
	}
	s.attach(req)
	return req, nil
}

// attach hands the shared settings to req.
func (s *Session) attach(req *httpclient.Request) {
	if s.auth != nil {
		req.UseAuth(s.auth)
	}
	if s.tls != nil {
		req.UseTLS(s.tls)
	}
}
