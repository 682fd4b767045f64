// Package transporttest provides a scripted Transport for tests.
//
//	fake := transporttest.JSON(200, `{"ok":true}`)
//	client, _ := httpclient.NewClient(httpclient.Config{}, httpclient.WithTransport(fake))
//	// ... fake.LastOptions holds what the client sent
package transporttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/reqkit/transport"
)

// Fake replays a fixed response for every Execute call.
type Fake struct {
	// StatusLine is emitted first. Defaults to "HTTP/1.1 <StatusCode>".
	StatusLine string
	StatusCode int
	// HeaderLines are emitted after the status line, in order.
	HeaderLines []string
	Body        []byte
	// Err is returned instead of a result when set.
	Err error
	// NoTLS reports a transport without TLS support.
	NoTLS bool

	mu          sync.Mutex
	calls       int
	lastOptions *transport.Options
}

// New returns a Fake answering with status and body and the given header lines.
func New(status int, body string, headerLines ...string) *Fake {
	return &Fake{StatusCode: status, Body: []byte(body), HeaderLines: headerLines}
}

// JSON returns a Fake answering with a JSON body.
func JSON(status int, body string) *Fake {
	return New(status, body, "Content-Type: application/json; charset=utf-8")
}

// Failing returns a Fake whose every call fails with a transport error.
func Failing(code int, message string) *Fake {
	return &Fake{Err: &transport.Error{Code: code, Message: message}}
}

// Name implements transport.Transport.
func (f *Fake) Name() string { return "fake" }

// Capabilities implements transport.Transport.
func (f *Fake) Capabilities() transport.Capabilities {
	return transport.Capabilities{TLS: !f.NoTLS}
}

// Execute implements transport.Transport.
func (f *Fake) Execute(ctx context.Context, opts *transport.Options, onHeader transport.HeaderFunc) (*transport.Result, error) {
	f.mu.Lock()
	f.calls++
	f.lastOptions = opts
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, transport.Classify(err)
	}
	if f.Err != nil {
		return nil, f.Err
	}

	status := f.StatusCode
	if status == 0 {
		status = 200
	}
	line := f.StatusLine
	if line == "" {
		line = fmt.Sprintf("HTTP/1.1 %d", status)
	}
	onHeader(line)
	for _, h := range f.HeaderLines {
		onHeader(h)
	}
	return &transport.Result{StatusCode: status, Body: f.Body}, nil
}

// Calls returns how many times Execute ran.
func (f *Fake) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// LastOptions returns the options of the most recent call, or nil.
func (f *Fake) LastOptions() *transport.Options {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastOptions
}
