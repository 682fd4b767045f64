package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
)

// Error codes. Values follow libcurl's CURLcode numbering.
const (
	CodeOther               = 0
	CodeUnsupportedProtocol = 1
	CodeMalformedURL        = 3
	CodeResolveHost         = 6
	CodeConnect             = 7
	CodeTimeout             = 28
	CodeSSLConnect          = 35
	CodeAborted             = 42
	CodeEmptyReply          = 52
	CodeSend                = 55
	CodeRecv                = 56
	CodeLocalCert           = 58
	CodePeerVerification    = 60
)

// Error is a transport-level failure.
type Error struct {
	Code    int
	Message string
	Err     error
}

// NewError creates an Error wrapping err.
func NewError(code int, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Err: err}
}

func (e *Error) Error() string {
	return fmt.Sprintf("transport: [%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Classify maps a Go network error onto an *Error.
// It returns nil for a nil error.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var te *Error
	if errors.As(err, &te) {
		return te
	}

	return NewError(classifyCode(err), err)
}

func classifyCode(err error) int {
	var (
		dnsErr      *net.DNSError
		opErr       *net.OpError
		netErr      net.Error
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		invalidErr  x509.CertificateInvalidError
		verifyErr   *tls.CertificateVerificationError
		recordErr   tls.RecordHeaderError
		alertErr    tls.AlertError
		urlErr      *url.Error
	)

	switch {
	case errors.Is(err, context.Canceled):
		return CodeAborted
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		return CodeTimeout
	case errors.As(err, &dnsErr):
		return CodeResolveHost
	case errors.As(err, &verifyErr), errors.As(err, &unknownAuth),
		errors.As(err, &hostErr), errors.As(err, &invalidErr):
		return CodePeerVerification
	case errors.As(err, &recordErr), errors.As(err, &alertErr):
		return CodeSSLConnect
	case errors.As(err, &opErr) && opErr.Op == "dial":
		return CodeConnect
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return CodeEmptyReply
	case errors.As(err, &opErr) && opErr.Op == "write":
		return CodeSend
	case errors.As(err, &opErr) && opErr.Op == "read":
		return CodeRecv
	case errors.As(err, &urlErr) && strings.Contains(urlErr.Err.Error(), "unsupported protocol scheme"):
		return CodeUnsupportedProtocol
	default:
		return CodeOther
	}
}
