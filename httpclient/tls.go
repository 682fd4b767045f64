package httpclient

import (
	"fmt"
	"strings"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/security"
	"github.com/kbukum/reqkit/transport"
)

// TLSConfig is the TLS policy of a request. Verification is on by default.
// The CA bundle file and CA directory are mutually exclusive.
type TLSConfig struct {
	verify       bool
	caFile       string
	caDir        string
	certFile     string
	certType     transport.CertType
	certPassword string
	keyFile      string
	keyPassword  string
}

// NewTLSConfig creates a TLSConfig with verification enabled.
func NewTLSConfig() *TLSConfig {
	return &TLSConfig{verify: true, certType: transport.CertTypePEM}
}

// SetVerification enables or disables peer and host verification.
func (c *TLSConfig) SetVerification(verify bool) *TLSConfig {
	c.verify = verify
	return c
}

// Verification reports whether verification is enabled.
func (c *TLSConfig) Verification() bool { return c.verify }

// SetCA sets the trusted CA. A regular file selects bundle mode, a
// directory selects directory mode; either clears the other.
func (c *TLSConfig) SetCA(path string) error {
	info, err := security.CheckReadable(path)
	if err != nil {
		return apperrors.IO(path, err)
	}

	switch {
	case info.IsDir():
		c.caDir, c.caFile = path, ""
	case info.Mode().IsRegular():
		c.caFile, c.caDir = path, ""
	default:
		return apperrors.IO(path, fmt.Errorf("not a file or directory"))
	}
	return nil
}

// CAFile returns the CA bundle path, or "".
func (c *TLSConfig) CAFile() string { return c.caFile }

// CADir returns the CA directory path, or "".
func (c *TLSConfig) CADir() string { return c.caDir }

// SetCertificate sets the client certificate. An empty password means none.
func (c *TLSConfig) SetCertificate(path, password string) error {
	if err := security.CheckReadableFile(path); err != nil {
		return apperrors.IO(path, err)
	}
	c.certFile = path
	c.certPassword = password
	return nil
}

// CertFile returns the client certificate path, or "".
func (c *TLSConfig) CertFile() string { return c.certFile }

// SetCertificateType selects PEM (default) or P12 for the client certificate.
func (c *TLSConfig) SetCertificateType(certType string) error {
	switch t := transport.CertType(strings.ToUpper(strings.TrimSpace(certType))); t {
	case transport.CertTypePEM, transport.CertTypeP12:
		c.certType = t
		return nil
	default:
		return apperrors.Validation(fmt.Sprintf("unsupported certificate type %q", certType)).
			WithDetail("cert_type", certType)
	}
}

// CertificateType returns the client certificate encoding.
func (c *TLSConfig) CertificateType() transport.CertType { return c.certType }

// SetPrivateKey sets the client private key. An empty password means none.
func (c *TLSConfig) SetPrivateKey(path, password string) error {
	if err := security.CheckReadableFile(path); err != nil {
		return apperrors.IO(path, err)
	}
	c.keyFile = path
	c.keyPassword = password
	return nil
}

// KeyFile returns the private key path, or "".
func (c *TLSConfig) KeyFile() string { return c.keyFile }

// TransportOptions returns the TLS options for a transport with caps.
// With verification off only the disabled flags are emitted. A private key
// without a certificate is left out, as libcurl ignores it.
func (c *TLSConfig) TransportOptions(caps transport.Capabilities) (*transport.TLSOptions, error) {
	if !caps.TLS {
		return nil, apperrors.Capability("TLS")
	}
	if !c.verify {
		return &transport.TLSOptions{VerifyPeer: false, VerifyHost: transport.VerifyHostNone}, nil
	}

	opts := &transport.TLSOptions{
		VerifyPeer: true,
		VerifyHost: transport.VerifyHostStrict,
		CAFile:     c.caFile,
		CAPath:     c.caDir,
	}
	if c.certFile != "" {
		opts.CertFile = c.certFile
		opts.CertType = c.certType
		opts.CertPassword = c.certPassword
	}
	if c.certFile != "" && c.keyFile != "" {
		opts.KeyFile = c.keyFile
		opts.KeyPassword = c.keyPassword
	}
	return opts, nil
}
