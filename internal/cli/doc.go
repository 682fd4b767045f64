// Package cli implements the reqkit command line: send for single HTTP
// requests, rpc for JSON-RPC calls and version.
//
// Configuration is read from reqkit.yml, .env and REQKIT_* variables:
//
//	logger:
//	  level: debug
//	client:
//	  transport: resty
//	  timeout: 30s
//	tls:
//	  ca_file: /etc/ssl/internal-ca.pem
//	tracing:
//	  enabled: true
//	  endpoint: localhost:4318
//	  insecure: true
package cli
