package httpclient

import "github.com/kbukum/reqkit/transport"

// AuthConfig holds request credentials. The zero scheme sends none.
type AuthConfig struct {
	scheme   transport.AuthScheme
	username string
	password string
}

// NewAuthConfig creates an empty AuthConfig.
func NewAuthConfig() *AuthConfig {
	return &AuthConfig{}
}

// Basic selects HTTP Basic authentication. Credentials are stored verbatim.
func (a *AuthConfig) Basic(username, password string) *AuthConfig {
	a.scheme = transport.AuthBasic
	a.username = username
	a.password = password
	return a
}

// Scheme returns the configured scheme, or "".
func (a *AuthConfig) Scheme() transport.AuthScheme { return a.scheme }

// Username returns the configured user name.
func (a *AuthConfig) Username() string { return a.username }

// TransportOptions returns the credentials for a transport, or nil when
// no scheme is set.
func (a *AuthConfig) TransportOptions() *transport.AuthOptions {
	if a == nil || a.scheme == "" {
		return nil
	}
	return &transport.AuthOptions{
		Scheme:      a.scheme,
		Credentials: a.username + ":" + a.password,
	}
}
