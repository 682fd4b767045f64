// Package resty implements transport.Transport on go-resty/resty/v2.
package resty

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/kbukum/reqkit/logger"
	"github.com/kbukum/reqkit/transport"
)

// Name is the registry name of this transport.
const Name = "resty"

// Transport executes exchanges through a fresh resty.Client per call.
type Transport struct {
	log *logger.Logger
}

// Option configures a Transport.
type Option func(*Transport)

// WithLogger routes resty's internal warnings to log.
func WithLogger(log *logger.Logger) Option {
	return func(t *Transport) { t.log = log }
}

// New creates a Transport.
func New(opts ...Option) *Transport {
	t := &Transport{log: logger.Nop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements transport.Transport.
func (t *Transport) Name() string { return Name }

// Capabilities implements transport.Transport.
func (t *Transport) Capabilities() transport.Capabilities {
	return transport.Capabilities{TLS: true}
}

// Execute implements transport.Transport.
func (t *Transport) Execute(ctx context.Context, opts *transport.Options, onHeader transport.HeaderFunc) (*transport.Result, error) {
	client, err := t.newClient(opts)
	if err != nil {
		return nil, err
	}

	req := client.R().SetContext(ctx)
	for _, pair := range opts.HeaderPairs() {
		if strings.EqualFold(pair[0], "Host") {
			continue
		}
		req.SetHeader(pair[0], pair[1])
	}
	if opts.Body != nil {
		req.SetBody(opts.Body)
		if !opts.HasHeader("Content-Type") {
			req.SetHeader("Content-Type", transport.DefaultFormContentType)
		}
	}
	if opts.Auth != nil && opts.Auth.Scheme == transport.AuthBasic {
		req.SetBasicAuth(opts.Auth.UserPassword())
	}

	resp, err := req.Execute(opts.Method, opts.URL)
	if err != nil {
		return nil, transport.Classify(err)
	}
	if resp.RawResponse == nil {
		return nil, transport.NewError(transport.CodeEmptyReply, fmt.Errorf("no response received"))
	}

	transport.EmitHeaders(resp.RawResponse, onHeader)
	return &transport.Result{StatusCode: resp.StatusCode(), Body: resp.Body()}, nil
}

func (t *Transport) newClient(opts *transport.Options) (*resty.Client, error) {
	client := resty.NewWithClient(&http.Client{
		Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
			TLSNextProto:      map[string]func(string, *tls.Conn) http.RoundTripper{},
		},
	})
	client.SetLogger(restyLogger{t.log})
	client.SetTimeout(opts.Timeout)
	client.SetRetryCount(0)
	client.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	if host := hostOverride(opts); host != "" {
		client.SetPreRequestHook(func(_ *resty.Client, r *http.Request) error {
			r.Host = host
			return nil
		})
	}

	if opts.TLS != nil {
		tlsCfg, err := opts.TLS.Config()
		if err != nil {
			return nil, err
		}
		client.SetTLSClientConfig(tlsCfg)
	}
	return client, nil
}

func hostOverride(opts *transport.Options) string {
	host := ""
	for _, pair := range opts.HeaderPairs() {
		if strings.EqualFold(pair[0], "Host") {
			host = pair[1]
		}
	}
	return host
}

// restyLogger adapts *logger.Logger to resty.Logger.
type restyLogger struct {
	log *logger.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
