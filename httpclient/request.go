package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/transport"
	"github.com/kbukum/reqkit/validation"
)

// Methods lists the supported request methods.
var Methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

var urlPattern = regexp.MustCompile(`^(http|https)://`)

type header struct {
	name  string
	value string
}

// Request describes one outbound exchange. It is not safe for concurrent
// use; build one per call.
type Request struct {
	method   string
	url      string
	headers  []header
	payload  *Payload
	encoding string
	accept   string
	timeout  time.Duration
	tls      *TLSConfig
	auth     *AuthConfig
}

// NewRequest creates a request. An empty method means GET.
func NewRequest(url, method string) (*Request, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		method = http.MethodGet
	}

	err := validation.New().
		OneOf("method", method, Methods).
		Match("url", url, urlPattern).
		Validate()
	if err != nil {
		return nil, err
	}

	return &Request{
		method: method,
		url:    url,
		tls:    NewTLSConfig(),
		auth:   NewAuthConfig(),
	}, nil
}

// Get creates a GET request.
func Get(url string) (*Request, error) { return NewRequest(url, http.MethodGet) }

// Post creates a POST request.
func Post(url string) (*Request, error) { return NewRequest(url, http.MethodPost) }

// Put creates a PUT request.
func Put(url string) (*Request, error) { return NewRequest(url, http.MethodPut) }

// Delete creates a DELETE request.
func Delete(url string) (*Request, error) { return NewRequest(url, http.MethodDelete) }

// Method returns the request method.
func (r *Request) Method() string { return r.method }

// URL returns the target URL.
func (r *Request) URL() string { return r.url }

// IsHTTPS reports whether the URL uses the https scheme.
func (r *Request) IsHTTPS() bool { return strings.HasPrefix(r.url, "https://") }

// SetURL replaces the target URL.
func (r *Request) SetURL(url string) error {
	if err := validation.New().Match("url", url, urlPattern).Validate(); err != nil {
		return err
	}
	r.url = url
	return nil
}

// SetHeader sets a header. Names compare case-insensitively; an existing
// header keeps its position and takes the new spelling and value.
func (r *Request) SetHeader(name, value string) *Request {
	name = strings.TrimSpace(name)
	if name != "" {
		r.headers = setHeader(r.headers, name, value)
	}
	return r
}

// Header returns the value of the named header, or "".
func (r *Request) Header(name string) string {
	for _, h := range r.headers {
		if strings.EqualFold(h.name, name) {
			return h.value
		}
	}
	return ""
}

// Headers returns the headers as "Name: Value" lines in emission order.
func (r *Request) Headers() []string {
	lines := make([]string, len(r.headers))
	for i, h := range r.headers {
		lines[i] = h.name + ": " + h.value
	}
	return lines
}

// SetPayload stores data for sending. encoding is "" for form encoding or
// "json". Serialization happens at send time.
func (r *Request) SetPayload(data *Payload, encoding string) error {
	switch strings.ToLower(strings.TrimSpace(encoding)) {
	case EncodingForm:
		r.encoding = EncodingForm
	case EncodingJSON:
		r.encoding = EncodingJSON
	default:
		return apperrors.Validation(fmt.Sprintf("unsupported encoding %q", encoding)).
			WithDetail("encoding", encoding)
	}
	r.payload = data
	return nil
}

// Payload returns the stored payload, or nil.
func (r *Request) Payload() *Payload { return r.payload }

// Encoding returns the payload encoding ("" for form).
func (r *Request) Encoding() string { return r.encoding }

// SetAccept constrains the response content type. Only json is supported;
// "application/json" is accepted as well.
func (r *Request) SetAccept(format string) error {
	short := format
	if _, sub, ok := strings.Cut(format, "/"); ok {
		short = sub
	}

	switch strings.ToLower(strings.TrimSpace(short)) {
	case "json":
		r.SetHeader("Accept", JSONContentType)
		r.accept = "application/json"
		return nil
	default:
		return apperrors.Validation(fmt.Sprintf("unsupported accept type %q", format)).
			WithDetail("accept", format)
	}
}

// Accept returns the expected response content type, or "".
func (r *Request) Accept() string { return r.accept }

// CheckTLS enables or disables server certificate verification.
func (r *Request) CheckTLS(check bool) *Request {
	r.tls.SetVerification(check)
	return r
}

// TLS returns the request's TLS configuration.
func (r *Request) TLS() *TLSConfig { return r.tls }

// UseTLS replaces the TLS configuration, typically with one shared by a session.
func (r *Request) UseTLS(cfg *TLSConfig) *Request {
	if cfg != nil {
		r.tls = cfg
	}
	return r
}

// Auth returns the request's authentication configuration.
func (r *Request) Auth() *AuthConfig { return r.auth }

// UseAuth replaces the authentication configuration.
func (r *Request) UseAuth(cfg *AuthConfig) *Request {
	if cfg != nil {
		r.auth = cfg
	}
	return r
}

// SetTimeout bounds the whole exchange. Zero means no timeout.
func (r *Request) SetTimeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Timeout returns the exchange timeout.
func (r *Request) Timeout() time.Duration { return r.timeout }

// SerializePayload returns the wire form of the payload. The result is a
// pure function of the payload and its encoding.
func (r *Request) SerializePayload() (SerializedPayload, error) {
	return serialize(r.payload, r.encoding)
}

// TransportOptions flattens the request into the options a transport executes.
// GET requests carry no body. TLS options are resolved for https URLs only,
// failing when caps lacks TLS.
func (r *Request) TransportOptions(caps transport.Capabilities) (*transport.Options, error) {
	opts := &transport.Options{
		URL:     r.url,
		Method:  r.method,
		Accept:  r.accept,
		Timeout: r.timeout,
		Auth:    r.auth.TransportOptions(),
	}

	headers := append([]header(nil), r.headers...)
	if r.method != http.MethodGet {
		serialized, err := r.SerializePayload()
		if err != nil {
			return nil, apperrors.Validation("cannot serialize payload").WithCause(err)
		}
		opts.Body = serialized.Body
		for _, h := range serialized.Headers() {
			headers = setHeader(headers, h[0], h[1])
		}
	}

	opts.Headers = make([]string, len(headers))
	for i, h := range headers {
		opts.Headers[i] = h.name + ": " + h.value
	}

	if r.IsHTTPS() {
		tlsOpts, err := r.tls.TransportOptions(caps)
		if err != nil {
			return nil, err
		}
		opts.TLS = tlsOpts
	}

	return opts, nil
}

func setHeader(headers []header, name, value string) []header {
	for i := range headers {
		if strings.EqualFold(headers[i].name, name) {
			headers[i] = header{name: name, value: value}
			return headers
		}
	}
	return append(headers, header{name: name, value: value})
}

// Send executes the request with the default client.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	return Default().Send(ctx, r)
}
