package nethttp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/reqkit/security/tlstest"
	"github.com/kbukum/reqkit/transport"
)

type recorded struct {
	method string
	header http.Header
	body   string
	host   string
}

func echoServer(t *testing.T, got *recorded) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		*got = recorded{method: r.Method, header: r.Header.Clone(), body: string(body), host: r.Host}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Add("X-Multi", "one")
		w.Header().Add("X-Multi", "two")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"ok":true}`)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func collect(lines *[]string) transport.HeaderFunc {
	return func(line string) { *lines = append(*lines, line) }
}

func TestExecute_PostWithHeadersAndAuth(t *testing.T) {
	var got recorded
	srv := echoServer(t, &got)

	var lines []string
	res, err := New().Execute(context.Background(), &transport.Options{
		URL:     srv.URL + "/items",
		Method:  http.MethodPost,
		Headers: []string{"X-Trace: abc", "Host: api.example"},
		Body:    []byte("a=1&b=2"),
		Auth:    &transport.AuthOptions{Scheme: transport.AuthBasic, Credentials: "alice:secret"},
	}, collect(&lines))
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(res.Body))

	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "a=1&b=2", got.body)
	assert.Equal(t, "abc", got.header.Get("X-Trace"))
	assert.Equal(t, "api.example", got.host)
	assert.Equal(t, transport.DefaultFormContentType, got.header.Get("Content-Type"))
	user, pass, ok := (&http.Request{Header: got.header}).BasicAuth()
	require.True(t, ok)
	assert.Equal(t, "alice", user)
	assert.Equal(t, "secret", pass)

	require.NotEmpty(t, lines)
	assert.Equal(t, "HTTP/1.1 201 Created", lines[0])
	assert.Contains(t, lines, "Content-Type: application/json; charset=utf-8")
	assert.Contains(t, lines, "X-Multi: one")
	assert.Contains(t, lines, "X-Multi: two")
}

func TestExecute_ExplicitContentTypeKept(t *testing.T) {
	var got recorded
	srv := echoServer(t, &got)

	_, err := New().Execute(context.Background(), &transport.Options{
		URL:     srv.URL,
		Method:  http.MethodPut,
		Headers: []string{"Content-Type: application/json; charset=utf-8"},
		Body:    []byte(`{"a":1}`),
	}, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, "application/json; charset=utf-8", got.header.Get("Content-Type"))
	assert.Equal(t, `{"a":1}`, got.body)
}

func TestExecute_GetWithoutBody(t *testing.T) {
	var got recorded
	srv := echoServer(t, &got)

	_, err := New().Execute(context.Background(), &transport.Options{URL: srv.URL, Method: http.MethodGet}, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, got.method)
	assert.Empty(t, got.body)
	assert.Empty(t, got.header.Get("Content-Type"))
	assert.Empty(t, got.header.Get("Authorization"))
}

func TestExecute_DoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	t.Cleanup(srv.Close)

	var lines []string
	res, err := New().Execute(context.Background(), &transport.Options{URL: srv.URL, Method: http.MethodGet}, collect(&lines))
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Contains(t, lines, "Location: /elsewhere")
}

func TestExecute_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New().Execute(context.Background(), &transport.Options{URL: url, Method: http.MethodGet}, func(string) {})
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, transport.CodeConnect, te.Code)
	assert.NotEmpty(t, te.Message)
}

func TestExecute_UnsupportedProtocol(t *testing.T) {
	_, err := New().Execute(context.Background(), &transport.Options{URL: "ftp://example.com/file", Method: http.MethodGet}, func(string) {})
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, transport.CodeUnsupportedProtocol, te.Code)
}

func TestExecute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	_, err := New().Execute(context.Background(), &transport.Options{
		URL: srv.URL, Method: http.MethodGet, Timeout: 50 * time.Millisecond,
	}, func(string) {})
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, transport.CodeTimeout, te.Code)
}

func TestExecute_CanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Execute(ctx, &transport.Options{URL: srv.URL, Method: http.MethodGet}, func(string) {})
	var te *transport.Error
	require.ErrorAs(t, err, &te)
	assert.Equal(t, transport.CodeAborted, te.Code)
}

func TestExecute_TLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "secure")
	}), false)

	exec := func(opts *transport.TLSOptions) (*transport.Result, error) {
		return New().Execute(context.Background(), &transport.Options{
			URL: srv.URL, Method: http.MethodGet, TLS: opts,
		}, func(string) {})
	}

	t.Run("trusted CA", func(t *testing.T) {
		res, err := exec(&transport.TLSOptions{VerifyPeer: true, VerifyHost: transport.VerifyHostStrict, CAFile: certs.CAFile})
		require.NoError(t, err)
		assert.Equal(t, "secure", string(res.Body))
	})

	t.Run("CA directory", func(t *testing.T) {
		_, err := exec(&transport.TLSOptions{VerifyPeer: true, VerifyHost: transport.VerifyHostStrict, CAPath: certs.CADir(t)})
		require.NoError(t, err)
	})

	t.Run("unknown CA", func(t *testing.T) {
		_, err := exec(&transport.TLSOptions{VerifyPeer: true, VerifyHost: transport.VerifyHostStrict})
		var te *transport.Error
		require.ErrorAs(t, err, &te)
		assert.Equal(t, transport.CodePeerVerification, te.Code)
	})

	t.Run("verification disabled", func(t *testing.T) {
		_, err := exec(&transport.TLSOptions{VerifyPeer: false, VerifyHost: transport.VerifyHostNone})
		require.NoError(t, err)
	})

	t.Run("bad client key", func(t *testing.T) {
		_, err := exec(&transport.TLSOptions{
			VerifyPeer: true, VerifyHost: transport.VerifyHostStrict, CAFile: certs.CAFile,
			CertFile: certs.CertFile, KeyFile: certs.WriteEncryptedKey(t, "pw"),
		})
		var te *transport.Error
		require.ErrorAs(t, err, &te)
		assert.Equal(t, transport.CodeLocalCert, te.Code)
		assert.True(t, strings.Contains(te.Message, "encrypted"))
	})
}

func TestExecute_ClientCertificate(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.TLS.PeerCertificates[0].Subject.CommonName)
	}), true)

	res, err := New().Execute(context.Background(), &transport.Options{
		URL:    srv.URL,
		Method: http.MethodGet,
		TLS: &transport.TLSOptions{
			VerifyPeer: true, VerifyHost: transport.VerifyHostStrict, CAFile: certs.CAFile,
			CertFile: certs.CertFile, KeyFile: certs.KeyFile,
		},
	}, func(string) {})
	require.NoError(t, err)
	assert.Equal(t, "localhost", string(res.Body))
}

func TestCapabilities(t *testing.T) {
	tr := New()
	assert.Equal(t, Name, tr.Name())
	assert.True(t, tr.Capabilities().TLS)
}
