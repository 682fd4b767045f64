package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/kbukum/reqkit/errors"
	"github.com/kbukum/reqkit/security/tlstest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reqkit.yml")
	require.NoError(t, os.WriteFile(path, []byte("name: reqkit-test\n"+content), 0o600))
	return path
}

// execCLI runs the command line against an isolated config file.
func execCLI(t *testing.T, cfg string, args ...string) (int, string, string) {
	t.Helper()
	if cfg == "" {
		cfg = writeConfig(t, "")
	}
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"--config", cfg}, args...), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestSend_GET(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Trace", "abc")
		_, _ = io.WriteString(w, `{"items":["a","b"]}`)
	}))
	defer srv.Close()

	code, stdout, stderr := execCLI(t, "", "send", "get", srv.URL+"/items", "-i")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stderr, "HTTP/1.1 200 OK")
	assert.Contains(t, stderr, "abc")
	assert.Equal(t, `{"items":["a","b"]}`+"\n", stdout)
}

func TestSend_FormPayloadHeadersAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "alice", user)
		assert.Equal(t, "s3cret:x", pass)
		assert.Equal(t, "yes", r.Header.Get("X-Custom"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, "a=1&b=two+words", string(body))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	code, _, stderr := execCLI(t, "", "send", "POST", srv.URL,
		"-H", "X-Custom: yes", "-d", "a=1", "-d", "b=two words", "-u", "alice:s3cret:x")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Contains(t, stderr, "201 Created")
}

func TestSend_JSONPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"count":3,"name":"widget","tags":["x"]}`, string(body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	for _, transportName := range []string{"nethttp", "resty"} {
		t.Run(transportName, func(t *testing.T) {
			code, stdout, stderr := execCLI(t, "", "send", "PUT", srv.URL, "--json",
				"-d", "count=3", "-d", "name=widget", "-d", `tags=["x"]`,
				"--transport", transportName, "--path", "count")
			require.Equal(t, ExitSuccess, code, stderr)
			assert.Equal(t, "3\n", stdout)
		})
	}
}

func TestSend_PathNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"a":1}`)
	}))
	defer srv.Close()

	code, _, stderr := execCLI(t, "", "send", "GET", srv.URL, "--path", "b")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, `path "b" not found`)
}

func TestSend_AcceptMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "hello")
	}))
	defer srv.Close()

	code, _, stderr := execCLI(t, "", "send", "GET", srv.URL, "--accept", "json")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, string(apperrors.ErrCodeContentTypeMismatch))
}

func TestSend_Fail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	code, _, _ := execCLI(t, "", "send", "GET", srv.URL)
	assert.Equal(t, ExitSuccess, code)

	code, _, stderr := execCLI(t, "", "send", "GET", srv.URL, "--fail")
	assert.Equal(t, ExitHTTPError, code)
	assert.Contains(t, stderr, "404")
}

func TestSend_ConnectionRefusedExitsWithTransportCode(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	code, _, stderr := execCLI(t, "", "send", "GET", url)
	assert.Equal(t, 7, code, stderr)
}

func TestSend_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad method", []string{"send", "PATCH", "http://localhost/"}},
		{"bad url", []string{"send", "GET", "localhost/"}},
		{"bad header", []string{"send", "GET", "http://localhost/", "-H", "novalue"}},
		{"header name with space", []string{"send", "GET", "http://localhost/", "-H", "Bad Name: x"}},
		{"bad data", []string{"send", "GET", "http://localhost/", "-d", "=x"}},
		{"bad accept", []string{"send", "GET", "http://localhost/", "--accept", "xml"}},
		{"missing ca", []string{"send", "GET", "https://localhost/", "--cacert", "/nonexistent/ca.pem"}},
		{"bad transport", []string{"send", "GET", "http://localhost/", "--transport", "curl"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, _, stderr := execCLI(t, "", tc.args...)
			assert.Equal(t, ExitUsageError, code, stderr)
		})
	}
}

func TestSend_TLS(t *testing.T) {
	certs := tlstest.GenerateTLSCerts(t)
	srv := tlstest.NewServer(t, certs, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"secure":true}`)
	}), true)

	t.Run("client certificate", func(t *testing.T) {
		code, stdout, stderr := execCLI(t, "", "send", "GET", srv.URL,
			"--cacert", certs.CAFile, "--cert", certs.CertFile, "--key", certs.KeyFile)
		require.Equal(t, ExitSuccess, code, stderr)
		assert.Contains(t, stdout, `"secure":true`)
	})

	t.Run("ca from config", func(t *testing.T) {
		cfg := writeConfig(t, "tls:\n  ca_file: "+certs.CAFile+"\n")
		code, _, stderr := execCLI(t, cfg, "send", "GET", srv.URL,
			"--cert", certs.CertFile, "--key", certs.KeyFile)
		require.Equal(t, ExitSuccess, code, stderr)
	})

	t.Run("unknown ca", func(t *testing.T) {
		code, _, _ := execCLI(t, "", "send", "GET", srv.URL,
			"--cert", certs.CertFile, "--key", certs.KeyFile)
		assert.Equal(t, 60, code)
	})
}

func rpcServer(t *testing.T, handle func(req map[string]any) map[string]any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(handle(req))
	}))
	t.Cleanup(srv.Close)
	return srv.Listener.Addr().String()
}

func TestRPC_Call(t *testing.T) {
	addr := rpcServer(t, func(req map[string]any) map[string]any {
		assert.Equal(t, "add", req["method"])
		params := req["params"].([]any)
		return map[string]any{
			"jsonrpc": "2.0",
			"result":  params[0].(float64) + params[1].(float64),
			"id":      req["id"],
		}
	})

	code, stdout, stderr := execCLI(t, "", "rpc", "--server", addr, "/", "add", "[1, 2]")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "3\n", stdout)
}

func TestRPC_Version1(t *testing.T) {
	addr := rpcServer(t, func(req map[string]any) map[string]any {
		_, hasVersion := req["jsonrpc"]
		assert.False(t, hasVersion)
		assert.Equal(t, []any{}, req["params"])
		return map[string]any{"result": map[string]any{"blocks": 42}, "error": nil, "id": req["id"]}
	})

	code, stdout, stderr := execCLI(t, "", "rpc", "--server", addr, "--version", "1.0", "/", "getinfo")
	require.Equal(t, ExitSuccess, code, stderr)
	assert.Equal(t, "{\n  \"blocks\": 42\n}\n", stdout)
}

func TestRPC_Errors(t *testing.T) {
	addr := rpcServer(t, func(req map[string]any) map[string]any {
		return map[string]any{
			"jsonrpc": "2.0",
			"error":   map[string]any{"code": -32601, "message": "Method not found"},
			"id":      req["id"],
		}
	})

	code, _, stderr := execCLI(t, "", "rpc", "--server", addr, "/", "nope")
	assert.Equal(t, ExitError, code)
	assert.Contains(t, stderr, "Method not found")

	code, _, _ = execCLI(t, "", "rpc", "--server", addr, "/", "add", "[1,")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = execCLI(t, "", "rpc", "--server", "no-port", "/", "add")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = execCLI(t, "", "rpc", "--server", "localhost:0", "/", "add")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = execCLI(t, "", "rpc", "--server", "", "/", "add")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = execCLI(t, "", "rpc", "--server", addr, "--version", "3.0", "/", "add")
	assert.Equal(t, ExitUsageError, code)
}

func TestVersion(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"version"}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, stdout.String(), "reqkit version ")

	stdout.Reset()
	code = run(context.Background(), []string{"version", "--json"}, &stdout, &stderr)
	require.Equal(t, ExitSuccess, code)
	var info map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &info))
	assert.Contains(t, info, "version")
}

func TestConfigErrors(t *testing.T) {
	cfg := writeConfig(t, "client:\n  transport: curl\n")
	code, _, stderr := execCLI(t, cfg, "send", "GET", "http://localhost/")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "config.client")

	cfg = writeConfig(t, "tracing:\n  enabled: true\n  endpoint: \"\"\n")
	code, _, _ = execCLI(t, cfg, "send", "GET", "http://localhost/")
	assert.Equal(t, ExitConfigError, code)
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "client:\n  transport: resty\n  timeout: 5s\nlogger:\n  level: warn\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "reqkit-test", cfg.Name)
	assert.Equal(t, "resty", cfg.Client.Transport)
	assert.Equal(t, "5s", cfg.Client.Timeout.String())
	assert.Equal(t, "warn", cfg.Logger.Level)
	assert.NotEmpty(t, cfg.Client.UserAgent)
	assert.NotZero(t, cfg.Metrics.Interval)
}

func TestParseData(t *testing.T) {
	p, err := parseData([]string{"n=3", "s=hello", "ok=true", "eq=a=b"}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"n", "s", "ok", "eq"}, p.Keys())
	n, _ := p.Get("n")
	assert.Equal(t, float64(3), n)
	s, _ := p.Get("s")
	assert.Equal(t, "hello", s)
	eq, _ := p.Get("eq")
	assert.Equal(t, "a=b", eq)

	p, err = parseData([]string{"n=3"}, false)
	require.NoError(t, err)
	n, _ = p.Get("n")
	assert.Equal(t, "3", n)

	_, err = parseData([]string{"novalue"}, false)
	assert.True(t, apperrors.IsValidation(err))
}

func TestCertTypeFor(t *testing.T) {
	assert.Equal(t, "P12", certTypeFor("client.p12"))
	assert.Equal(t, "P12", certTypeFor("client.PFX"))
	assert.Equal(t, "PEM", certTypeFor("client.pem"))
	assert.Equal(t, "PEM", certTypeFor("client"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 28, exitCode(apperrors.Transport(28, "timeout")))
	assert.Equal(t, ExitUsageError, exitCode(apperrors.Validation("bad")))
	assert.Equal(t, ExitError, exitCode(apperrors.RPC(-1, "x", nil)))
	assert.Equal(t, ExitError, exitCode(assert.AnError))
	assert.Equal(t, ExitConfigError, exitCode(&exitError{code: ExitConfigError, err: assert.AnError}))
}
