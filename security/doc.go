// Package security loads TLS material for reqkit transports.
//
// It checks that certificate, key and CA paths are readable, and builds a
// *tls.Config from them: CA bundle files or directories of PEM files, PEM
// client certificates with optionally encrypted keys, and PKCS#12 bundles.
//
//	cfg := security.TLSConfig{
//	    CAFile:   "/path/to/ca.pem",
//	    CertFile: "/path/to/client.pem",
//	    KeyFile:  "/path/to/client.key",
//	    KeyPassword: "secret",
//	}
//	tlsConfig, err := cfg.Build()
package security
