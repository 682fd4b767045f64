package transport

import (
	"crypto/tls"

	"github.com/kbukum/reqkit/security"
)

// Config builds the *tls.Config for these options. A nil receiver yields
// a nil config, which lets the engine use its defaults.
func (o *TLSOptions) Config() (*tls.Config, error) {
	if o == nil {
		return nil, nil
	}
	cfg := &security.TLSConfig{
		SkipVerify:     !o.VerifyPeer,
		SkipHostVerify: o.VerifyHost == VerifyHostNone,
		CAFile:         o.CAFile,
		CADir:          o.CAPath,
		CertFile:       o.CertFile,
		CertType:       string(o.CertType),
		CertPassword:   o.CertPassword,
		KeyFile:        o.KeyFile,
		KeyPassword:    o.KeyPassword,
	}
	tlsCfg, err := cfg.Build()
	if err != nil {
		return nil, &Error{Code: tlsErrorCode(o), Message: err.Error(), Err: err}
	}
	return tlsCfg, nil
}

func tlsErrorCode(o *TLSOptions) int {
	if o.CertFile != "" || o.KeyFile != "" {
		return CodeLocalCert
	}
	return CodeSSLConnect
}
