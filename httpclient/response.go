package httpclient

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	apperrors "github.com/kbukum/reqkit/errors"
)

// Response accumulates the result of an exchange. Header lines arrive
// one at a time through AppendHeaderLine; the body is set once at the end.
type Response struct {
	statusLine  string
	statusCode  int
	rawHeaders  []string
	headers     map[string]string
	names       map[string]string
	body        []byte
	contentType string

	decoded    any
	decodeErr  error
	decodeDone bool
}

// NewResponse creates an empty Response.
func NewResponse() *Response {
	return &Response{
		headers: make(map[string]string),
		names:   make(map[string]string),
	}
}

// AppendHeaderLine records one raw header line. Status lines start a new
// header block; blank lines and lines without a colon are ignored.
// Names compare case-insensitively and the last value wins.
func (r *Response) AppendHeaderLine(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	r.rawHeaders = append(r.rawHeaders, line)

	if strings.HasPrefix(line, "HTTP/") {
		r.statusLine = line
		r.statusCode = parseStatusCode(line)
		clear(r.headers)
		clear(r.names)
		return
	}

	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	key := strings.ToLower(name)
	r.headers[key] = strings.TrimSpace(value)
	r.names[key] = name
}

func parseStatusCode(line string) int {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return 0
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0
	}
	return code
}

// SetBody stores the body and its normalized content type: the part of
// declaredContentType before any ';', trimmed and lower-cased.
func (r *Response) SetBody(body []byte, declaredContentType string) {
	r.body = body
	r.contentType = NormalizeContentType(declaredContentType)
	r.decoded, r.decodeErr, r.decodeDone = nil, nil, false
}

// NormalizeContentType strips parameters from a Content-Type value and
// lower-cases it.
func NormalizeContentType(value string) string {
	mediaType, _, _ := strings.Cut(value, ";")
	return strings.ToLower(strings.TrimSpace(mediaType))
}

// Header returns the last value of the named header, or "".
func (r *Response) Header(name string) string {
	return r.headers[strings.ToLower(name)]
}

// Headers returns the parsed headers keyed by their last-seen spelling.
func (r *Response) Headers() map[string]string {
	out := make(map[string]string, len(r.headers))
	for key, value := range r.headers {
		out[r.names[key]] = value
	}
	return out
}

// RawHeaders returns every non-blank header line in arrival order.
func (r *Response) RawHeaders() []string {
	return append([]string(nil), r.rawHeaders...)
}

// StatusLine returns the last status line, e.g. "HTTP/1.1 200 OK".
func (r *Response) StatusLine() string { return r.statusLine }

// StatusCode returns the HTTP status code.
func (r *Response) StatusCode() int { return r.statusCode }

func (r *Response) setStatusCode(code int) {
	if code != 0 {
		r.statusCode = code
	}
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// Body returns the raw body.
func (r *Response) Body() []byte { return r.body }

// ContentType returns the normalized body content type.
func (r *Response) ContentType() string { return r.contentType }

// Decoded returns the body decoded for its content type. JSON bodies
// become map[string]any, []any or a scalar; an empty JSON body is nil.
// Other content types return the raw bytes. The result is memoized.
func (r *Response) Decoded() (any, error) {
	if !r.decodeDone {
		r.decoded, r.decodeErr = r.decode()
		r.decodeDone = true
	}
	return r.decoded, r.decodeErr
}

func (r *Response) decode() (any, error) {
	if !r.isJSON() {
		return r.body, nil
	}
	if len(bytes.TrimSpace(r.body)) == 0 {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal(r.body, &v); err != nil {
		return nil, apperrors.Decode(r.contentType, err)
	}
	return v, nil
}

// DecodeInto unmarshals a JSON body into v.
func (r *Response) DecodeInto(v any) error {
	if !r.isJSON() {
		return apperrors.ContentTypeMismatch("application/json", r.contentType)
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return apperrors.Decode(r.contentType, err)
	}
	return nil
}

// Get looks up a gjson path in the body, e.g. "result.items.0.id".
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.body, path)
}

func (r *Response) isJSON() bool {
	return r.contentType == "application/json"
}
