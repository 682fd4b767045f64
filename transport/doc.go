// Package transport defines the contract between the reqkit driver and the
// HTTP engine that performs the actual exchange.
//
// The driver flattens a request into an Options bag and hands it to a
// Transport. The Transport streams raw header lines back through a
// HeaderFunc as they arrive and returns the body once the exchange is
// complete. Network failures are reported as *Error values carrying a
// numeric code compatible with libcurl's CURLcode numbering, so callers
// that grew up on curl error numbers see familiar values.
//
// Implementations:
//
//   - nethttp: net/http, HTTP/1.1, no connection reuse, no redirects
//   - resty: go-resty/resty/v2 with the same policy
//   - transporttest: scripted fake for tests
package transport
