package httpclient

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/security/tlstest"
	"github.com/kbukum/reqkit/transport"
)

var tlsCaps = transport.Capabilities{TLS: true}

func TestNewRequest_URLValidation(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://example.com/path?q=1",
		"http://localhost:8080",
		"https://",
	}
	for _, u := range valid {
		req, err := NewRequest(u, "GET")
		require.NoError(t, err, u)
		assert.Equal(t, u, req.URL())
	}

	invalid := []string{
		"",
		"example.com",
		"ftp://example.com",
		"HTTP://example.com",
		" http://example.com",
		"http:/example.com",
		"ws://example.com",
	}
	for _, u := range invalid {
		_, err := NewRequest(u, "GET")
		assert.True(t, apperrors.IsValidation(err), "expected validation error for %q, got %v", u, err)
	}
}

func TestNewRequest_MethodValidation(t *testing.T) {
	for _, m := range []string{"GET", "post", "Put", "delete", ""} {
		req, err := NewRequest("http://example.com", m)
		require.NoError(t, err, m)
		assert.Contains(t, Methods, req.Method())
	}

	for _, m := range []string{"PATCH", "HEAD", "OPTIONS", "CONNECT", "TRACE", "FETCH"} {
		_, err := NewRequest("http://example.com", m)
		assert.True(t, apperrors.IsValidation(err), "expected validation error for %q", m)
	}
}

func TestNewRequest_Defaults(t *testing.T) {
	req, err := NewRequest("http://example.com", "")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, req.Method())
	assert.True(t, req.TLS().Verification())
	assert.Nil(t, req.Auth().TransportOptions())
	assert.Zero(t, req.Timeout())
	assert.Empty(t, req.Accept())
}

func TestVerbHelpers(t *testing.T) {
	ctors := map[string]func(string) (*Request, error){
		http.MethodGet: Get, http.MethodPost: Post, http.MethodPut: Put, http.MethodDelete: Delete,
	}
	for method, ctor := range ctors {
		req, err := ctor("https://example.com")
		require.NoError(t, err)
		assert.Equal(t, method, req.Method())
		assert.True(t, req.IsHTTPS())
	}
}

func TestSetURL(t *testing.T) {
	req, err := Get("http://example.com")
	require.NoError(t, err)

	require.NoError(t, req.SetURL("https://other.example"))
	assert.Equal(t, "https://other.example", req.URL())

	err = req.SetURL("mailto:x@example.com")
	assert.True(t, apperrors.IsValidation(err))
	assert.Equal(t, "https://other.example", req.URL())
}

func TestSetHeader_OrderAndOverwrite(t *testing.T) {
	req, err := Get("http://example.com")
	require.NoError(t, err)

	req.SetHeader("X-First", "1").
		SetHeader("X-Second", "2").
		SetHeader("x-first", "one").
		SetHeader("", "ignored")

	assert.Equal(t, []string{"x-first: one", "X-Second: 2"}, req.Headers())
	assert.Equal(t, "one", req.Header("X-FIRST"))
	assert.Empty(t, req.Header("Missing"))
}

func TestSetPayload_Encoding(t *testing.T) {
	req, err := Post("http://example.com")
	require.NoError(t, err)

	require.NoError(t, req.SetPayload(NewPayload(), ""))
	assert.Equal(t, EncodingForm, req.Encoding())
	require.NoError(t, req.SetPayload(NewPayload(), "JSON"))
	assert.Equal(t, EncodingJSON, req.Encoding())

	err = req.SetPayload(NewPayload(), "xml")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "unsupported encoding")
	assert.Equal(t, EncodingJSON, req.Encoding())
}

func TestSetAccept(t *testing.T) {
	for _, format := range []string{"json", "application/json", "JSON"} {
		req, err := Get("http://example.com")
		require.NoError(t, err)
		require.NoError(t, req.SetAccept(format), format)
		assert.Equal(t, "application/json", req.Accept())
		assert.Equal(t, JSONContentType, req.Header("Accept"))
	}

	req, err := Get("http://example.com")
	require.NoError(t, err)
	err = req.SetAccept("xml")
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "unsupported accept type")
	assert.Empty(t, req.Accept())
}

func TestSerializePayload_JSON(t *testing.T) {
	req, err := Post("http://example.com")
	require.NoError(t, err)
	require.NoError(t, req.SetPayload(NewPayload().Set("a", 1).Set("b", 2), "json"))

	s, err := req.SerializePayload()
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":2}`, string(s.Body))
	assert.Equal(t, "application/json; charset=utf-8", s.ContentType)
	assert.Equal(t, len(s.Body), s.ContentLength)
	assert.Equal(t, [][2]string{{"Content-Type", JSONContentType}, {"Content-Length", "13"}}, s.Headers())

	again, err := req.SerializePayload()
	require.NoError(t, err)
	assert.Equal(t, s, again)
}

func TestSerializePayload_Form(t *testing.T) {
	req, err := Post("http://example.com")
	require.NoError(t, err)
	require.NoError(t, req.SetPayload(NewPayload().Set("a", "x y"), ""))

	s, err := req.SerializePayload()
	require.NoError(t, err)
	assert.Equal(t, "a=x+y", string(s.Body))
	assert.Empty(t, s.ContentType)
	assert.Nil(t, s.Headers())
}

func TestSerializePayload_Nil(t *testing.T) {
	req, err := Post("http://example.com")
	require.NoError(t, err)

	s, err := req.SerializePayload()
	require.NoError(t, err)
	assert.NotNil(t, s.Body)
	assert.Empty(t, s.Body)
}

func TestSerializePayload_NilJSON(t *testing.T) {
	req, err := Put("http://example.com")
	require.NoError(t, err)
	require.NoError(t, req.SetPayload(nil, "json"))

	s, err := req.SerializePayload()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(s.Body))
	assert.Equal(t, 2, s.ContentLength)
	assert.Equal(t, JSONContentType, s.ContentType)
}

func TestTransportOptions_PostJSON(t *testing.T) {
	req, err := Post("http://example.com/api")
	require.NoError(t, err)
	req.SetHeader("X-Trace", "abc").SetHeader("content-type", "text/plain")
	require.NoError(t, req.SetPayload(NewPayload().Set("k", "v"), "json"))
	require.NoError(t, req.SetAccept("json"))
	req.Auth().Basic("alice", "secret")
	req.SetTimeout(3 * time.Second)

	opts, err := req.TransportOptions(tlsCaps)
	require.NoError(t, err)

	assert.Equal(t, "http://example.com/api", opts.URL)
	assert.Equal(t, http.MethodPost, opts.Method)
	assert.Equal(t, []string{
		"X-Trace: abc",
		"Content-Type: application/json; charset=utf-8",
		"Accept: application/json; charset=utf-8",
		"Content-Length: 9",
	}, opts.Headers)
	assert.Equal(t, `{"k":"v"}`, string(opts.Body))
	assert.Equal(t, "application/json", opts.Accept)
	assert.Equal(t, 3*time.Second, opts.Timeout)
	assert.Nil(t, opts.TLS)
	require.NotNil(t, opts.Auth)
	assert.Equal(t, "alice:secret", opts.Auth.Credentials)

	// The request itself is not modified.
	assert.Equal(t, "text/plain", req.Header("Content-Type"))
}

func TestTransportOptions_GetHasNoBody(t *testing.T) {
	req, err := Get("http://example.com")
	require.NoError(t, err)
	require.NoError(t, req.SetPayload(NewPayload().Set("a", 1), "json"))

	opts, err := req.TransportOptions(tlsCaps)
	require.NoError(t, err)
	assert.Nil(t, opts.Body)
	assert.Empty(t, opts.Headers)
}

func TestTransportOptions_TLSOnlyForHTTPS(t *testing.T) {
	plain, err := Get("http://example.com")
	require.NoError(t, err)
	opts, err := plain.TransportOptions(transport.Capabilities{TLS: false})
	require.NoError(t, err)
	assert.Nil(t, opts.TLS)

	secure, err := Get("https://example.com")
	require.NoError(t, err)
	opts, err = secure.TransportOptions(tlsCaps)
	require.NoError(t, err)
	require.NotNil(t, opts.TLS)
	assert.True(t, opts.TLS.VerifyPeer)

	_, err = secure.TransportOptions(transport.Capabilities{TLS: false})
	assert.True(t, apperrors.IsCapability(err))
}

func TestUseTLSAndAuth(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	shared := NewTLSConfig()
	require.NoError(t, shared.SetCA(certs.CAFile))
	auth := NewAuthConfig().Basic("u", "p")

	req, err := Get("https://example.com")
	require.NoError(t, err)
	req.UseTLS(shared).UseAuth(auth).UseTLS(nil).UseAuth(nil)

	assert.Same(t, shared, req.TLS())
	assert.Same(t, auth, req.Auth())

	req.CheckTLS(false)
	assert.False(t, shared.Verification())
}
