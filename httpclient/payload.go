package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Payload encodings.
const (
	EncodingForm = ""
	EncodingJSON = "json"
)

// JSONContentType is the Content-Type sent with JSON payloads and the
// Accept value sent for a json accept constraint.
const JSONContentType = "application/json; charset=utf-8"

// Payload is an ordered set of request parameters. Keys keep the position
// of their first Set, which fixes the serialized byte order.
type Payload struct {
	keys   []string
	values map[string]any
}

// NewPayload creates an empty Payload.
func NewPayload() *Payload {
	return &Payload{values: make(map[string]any)}
}

// PayloadFromMap builds a Payload from m with keys in sorted order.
func PayloadFromMap(m map[string]any) *Payload {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewPayload()
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set stores value under key.
func (p *Payload) Set(key string, value any) *Payload {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// Get returns the value stored under key.
func (p *Payload) Get(key string) (any, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Keys returns the keys in serialization order.
func (p *Payload) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of keys.
func (p *Payload) Len() int { return len(p.keys) }

// MarshalJSON encodes the payload as a JSON object in key order.
func (p *Payload) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range p.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.values[k])
		if err != nil {
			return nil, fmt.Errorf("payload key %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// EncodeForm encodes the payload as application/x-www-form-urlencoded.
// Nested slices and maps use bracket notation (a[0]=x&m[k]=y), booleans
// encode as 1 and 0, and nil values are skipped.
func (p *Payload) EncodeForm() string {
	var parts []string
	for _, k := range p.keys {
		parts = appendFormValue(parts, k, p.values[k])
	}
	return strings.Join(parts, "&")
}

func appendFormValue(parts []string, key string, value any) []string {
	switch v := value.(type) {
	case nil:
		return parts
	case *Payload:
		for _, k := range v.keys {
			parts = appendFormValue(parts, key+"["+k+"]", v.values[k])
		}
		return parts
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = appendFormValue(parts, key+"["+k+"]", v[k])
		}
		return parts
	case []any:
		for i, item := range v {
			parts = appendFormValue(parts, key+"["+strconv.Itoa(i)+"]", item)
		}
		return parts
	case []string:
		for i, item := range v {
			parts = appendFormValue(parts, key+"["+strconv.Itoa(i)+"]", item)
		}
		return parts
	default:
		return append(parts, url.QueryEscape(key)+"="+url.QueryEscape(formScalar(v)))
	}
}

func formScalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "1"
		}
		return "0"
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

// SerializedPayload is the wire form of a payload.
type SerializedPayload struct {
	Body []byte
	// ContentType is set for JSON only; form bodies keep the caller's headers.
	ContentType string
	// ContentLength is len(Body) for JSON and zero otherwise.
	ContentLength int
}

// Headers returns the headers implied by the serialization.
func (s SerializedPayload) Headers() [][2]string {
	if s.ContentType == "" {
		return nil
	}
	return [][2]string{
		{"Content-Type", s.ContentType},
		{"Content-Length", strconv.Itoa(s.ContentLength)},
	}
}

func serialize(p *Payload, encoding string) (SerializedPayload, error) {
	body := []byte{}
	if encoding == EncodingJSON {
		if p == nil {
			p = NewPayload()
		}
		var err error
		if body, err = p.MarshalJSON(); err != nil {
			return SerializedPayload{}, err
		}
		return SerializedPayload{Body: body, ContentType: JSONContentType, ContentLength: len(body)}, nil
	}
	if p != nil {
		body = []byte(p.EncodeForm())
	}
	return SerializedPayload{Body: body}, nil
}
