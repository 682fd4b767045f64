package httpclient

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/reqkit/errors"
)

func TestResponse_AppendHeaderLine(t *testing.T) {
	r := NewResponse()
	for _, line := range []string{
		"HTTP/1.1 200 OK\r\n",
		"Content-Type: text/plain\r\n",
		"X-Token: a\r\n",
		"x-token: b\r\n",
		"garbage line\r\n",
		"\r\n",
	} {
		r.AppendHeaderLine(line)
	}

	assert.Equal(t, "HTTP/1.1 200 OK", r.StatusLine())
	assert.Equal(t, 200, r.StatusCode())
	assert.Equal(t, "b", r.Header("X-TOKEN"))
	assert.Equal(t, "text/plain", r.Header("content-type"))
	assert.Empty(t, r.Header("Missing"))
	assert.Equal(t, map[string]string{"Content-Type": "text/plain", "x-token": "b"}, r.Headers())
	assert.Equal(t, []string{
		"HTTP/1.1 200 OK", "Content-Type: text/plain", "X-Token: a", "x-token: b", "garbage line",
	}, r.RawHeaders())
}

func TestResponse_InterimStatusResetsHeaders(t *testing.T) {
	r := NewResponse()
	r.AppendHeaderLine("HTTP/1.1 100 Continue")
	r.AppendHeaderLine("X-Interim: yes")
	r.AppendHeaderLine("HTTP/1.1 201 Created")
	r.AppendHeaderLine("Location: /items/1")

	assert.Equal(t, 201, r.StatusCode())
	assert.Empty(t, r.Header("X-Interim"))
	assert.Equal(t, "/items/1", r.Header("Location"))
	assert.Len(t, r.RawHeaders(), 4)
}

func TestResponse_ContentTypeNormalized(t *testing.T) {
	r := NewResponse()
	r.AppendHeaderLine("Content-Type: TEXT/HTML; charset=utf-8")
	r.SetBody([]byte("<p>"), r.Header("Content-Type"))
	assert.Equal(t, "text/html", r.ContentType())

	assert.Equal(t, "application/json", NormalizeContentType(" Application/JSON ;charset=utf-8"))
	assert.Equal(t, "", NormalizeContentType(""))
}

func TestResponse_DecodedJSONRoundTrip(t *testing.T) {
	original := map[string]any{
		"name":  "widget",
		"count": float64(3),
		"tags":  []any{"a", "b"},
		"meta":  map[string]any{"ok": true, "none": nil},
	}
	body, err := json.Marshal(original)
	require.NoError(t, err)

	r := NewResponse()
	r.SetBody(body, "application/json; charset=utf-8")
	decoded, err := r.Decoded()
	require.NoError(t, err)
	assert.Equal(t, original, decoded)

	again, err := r.Decoded()
	require.NoError(t, err)
	assert.Equal(t, decoded, again)
}

func TestResponse_DecodedPayloadRoundTrip(t *testing.T) {
	p := NewPayload().Set("a", 1).Set("b", "two")
	s, err := serialize(p, EncodingJSON)
	require.NoError(t, err)

	r := NewResponse()
	r.SetBody(s.Body, s.ContentType)
	decoded, err := r.Decoded()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1), "b": "two"}, decoded)
}

func TestResponse_DecodedMalformedJSON(t *testing.T) {
	r := NewResponse()
	r.SetBody([]byte(`{"a":`), "application/json")
	_, err := r.Decoded()
	require.Error(t, err)
	assert.True(t, apperrors.IsDecode(err))
}

func TestResponse_DecodedEmptyJSON(t *testing.T) {
	r := NewResponse()
	r.SetBody(nil, "application/json")
	v, err := r.Decoded()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResponse_DecodedOtherTypesRaw(t *testing.T) {
	r := NewResponse()
	r.SetBody([]byte("{not json"), "text/plain")
	v, err := r.Decoded()
	require.NoError(t, err)
	assert.Equal(t, []byte("{not json"), v)
}

func TestResponse_DecodeInto(t *testing.T) {
	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}

	r := NewResponse()
	r.SetBody([]byte(`{"id":7,"name":"x"}`), "application/json")
	require.NoError(t, r.DecodeInto(&out))
	assert.Equal(t, 7, out.ID)

	r.SetBody([]byte(`[1,2]`), "application/json")
	assert.True(t, apperrors.IsDecode(r.DecodeInto(&out)))

	r.SetBody([]byte(`{}`), "text/plain")
	assert.True(t, apperrors.IsContentTypeMismatch(r.DecodeInto(&out)))
}

func TestResponse_GetPath(t *testing.T) {
	r := NewResponse()
	r.SetBody([]byte(`{"result":{"items":[{"id":"a1"},{"id":"b2"}]}}`), "application/json")

	assert.Equal(t, "b2", r.Get("result.items.1.id").String())
	assert.Equal(t, int64(2), r.Get("result.items.#").Int())
	assert.False(t, r.Get("result.missing").Exists())
}

func TestResponse_IsSuccess(t *testing.T) {
	for code, want := range map[int]bool{200: true, 204: true, 299: true, 199: false, 301: false, 404: false, 500: false} {
		r := NewResponse()
		r.setStatusCode(code)
		assert.Equal(t, want, r.IsSuccess(), code)
	}
}
