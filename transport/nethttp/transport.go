// Package nethttp implements transport.Transport on net/http.
//
// Every exchange builds its own http.Client: connections are not pooled,
// redirects are returned to the caller as-is, and only HTTP/1.1 is spoken.
package nethttp

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/kbukum/reqkit/transport"
)

// Name is the registry name of this transport.
const Name = "nethttp"

// Transport is the default transport.
type Transport struct{}

// New creates a Transport.
func New() *Transport { return &Transport{} }

// Name implements transport.Transport.
func (t *Transport) Name() string { return Name }

// Capabilities implements transport.Transport.
func (t *Transport) Capabilities() transport.Capabilities {
	return transport.Capabilities{TLS: true}
}

// Execute implements transport.Transport.
func (t *Transport) Execute(ctx context.Context, opts *transport.Options, onHeader transport.HeaderFunc) (*transport.Result, error) {
	client, err := newClient(opts)
	if err != nil {
		return nil, err
	}

	req, err := buildRequest(ctx, opts)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, transport.Classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	transport.EmitHeaders(resp, onHeader)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if te := transport.Classify(err); te.Code == transport.CodeTimeout || te.Code == transport.CodeAborted {
			return nil, te
		}
		return nil, transport.NewError(transport.CodeRecv, fmt.Errorf("read response body: %w", err))
	}

	return &transport.Result{StatusCode: resp.StatusCode, Body: body}, nil
}

func newClient(opts *transport.Options) (*http.Client, error) {
	tr := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
		ForceAttemptHTTP2: false,
		TLSNextProto:      map[string]func(string, *tls.Conn) http.RoundTripper{},
	}

	if opts.TLS != nil {
		tlsCfg, err := opts.TLS.Config()
		if err != nil {
			return nil, err
		}
		tr.TLSClientConfig = tlsCfg
	}

	return &http.Client{
		Transport: tr,
		Timeout:   opts.Timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

func buildRequest(ctx context.Context, opts *transport.Options) (*http.Request, error) {
	var body io.Reader
	if opts.Body != nil {
		body = bytes.NewReader(opts.Body)
	}

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.URL, body)
	if err != nil {
		return nil, transport.NewError(transport.CodeMalformedURL, err)
	}

	for _, pair := range opts.HeaderPairs() {
		if strings.EqualFold(pair[0], "Host") {
			req.Host = pair[1]
			continue
		}
		req.Header.Set(pair[0], pair[1])
	}

	if opts.Body != nil && !opts.HasHeader("Content-Type") {
		req.Header.Set("Content-Type", transport.DefaultFormContentType)
	}

	if opts.Auth != nil && opts.Auth.Scheme == transport.AuthBasic {
		user, pass := opts.Auth.UserPassword()
		req.SetBasicAuth(user, pass)
	}

	return req, nil
}
