package transport

import (
	"net/http"
	"sort"
)

// EmitHeaders reports the status line of resp followed by one line per
// header value, with header names in sorted canonical form.
func EmitHeaders(resp *http.Response, onHeader HeaderFunc) {
	onHeader(resp.Proto + " " + resp.Status)

	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range resp.Header[name] {
			onHeader(name + ": " + value)
		}
	}
}
