package transport

import (
	"strings"
	"time"
)

// VerifyHost selects how the server certificate's name is checked.
type VerifyHost int

const (
	// VerifyHostNone skips the hostname check.
	VerifyHostNone VerifyHost = iota
	// VerifyHostStrict requires the certificate to match the requested host.
	VerifyHostStrict
)

// String returns the mode name.
func (v VerifyHost) String() string {
	if v == VerifyHostStrict {
		return "strict"
	}
	return "none"
}

// CertType is the encoding of a client certificate file.
type CertType string

const (
	// CertTypePEM is a PEM certificate, optionally followed by its key.
	CertTypePEM CertType = "PEM"
	// CertTypeP12 is a PKCS#12 bundle holding certificate and key.
	CertTypeP12 CertType = "P12"
)

// TLSOptions are the TLS settings of a single exchange.
// When VerifyPeer is false every other field is ignored.
type TLSOptions struct {
	VerifyPeer   bool
	VerifyHost   VerifyHost
	CAFile       string
	CAPath       string
	CertFile     string
	CertType     CertType
	CertPassword string
	KeyFile      string
	KeyPassword  string
}

// AuthScheme identifies an authentication scheme.
type AuthScheme string

// AuthBasic is HTTP Basic authentication.
const AuthBasic AuthScheme = "basic"

// AuthOptions are the credentials of a single exchange.
type AuthOptions struct {
	Scheme AuthScheme
	// Credentials is "username:password" for AuthBasic.
	Credentials string
}

// UserPassword splits Credentials at the first colon.
func (a *AuthOptions) UserPassword() (string, string) {
	user, pass, _ := strings.Cut(a.Credentials, ":")
	return user, pass
}

// Options is the flattened, immutable description of one exchange.
type Options struct {
	URL    string
	Method string
	// Headers are "Name: Value" lines in emission order.
	Headers []string
	// Body is nil when nothing is sent.
	Body []byte
	TLS  *TLSOptions
	Auth *AuthOptions
	// Accept is the content type the caller insists on, or "".
	Accept string
	// Timeout bounds the whole exchange. Zero means no timeout.
	Timeout time.Duration
}

// HeaderPairs splits Headers into name/value pairs, skipping malformed lines.
func (o *Options) HeaderPairs() [][2]string {
	pairs := make([][2]string, 0, len(o.Headers))
	for _, line := range o.Headers {
		name, value, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(name), strings.TrimSpace(value)})
	}
	return pairs
}

// HasHeader reports whether a header with the given name is present,
// compared case-insensitively.
func (o *Options) HasHeader(name string) bool {
	for _, p := range o.HeaderPairs() {
		if strings.EqualFold(p[0], name) {
			return true
		}
	}
	return false
}
