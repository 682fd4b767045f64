package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration-time errors, raised before any network activity.
const (
	// ErrCodeValidation indicates a bad method, URL, encoding, accept type or JSON-RPC version.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrCodeIO indicates a TLS-related path that is missing or unreadable.
	ErrCodeIO ErrorCode = "IO_ERROR"
	// ErrCodeCapability indicates the transport lacks a required feature (TLS).
	ErrCodeCapability ErrorCode = "CAPABILITY_ERROR"
)

// Exchange-time errors.
const (
	// ErrCodeTransport indicates a network or transport-level failure.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"
	// ErrCodeContentTypeMismatch indicates the response type disagrees with the accept constraint.
	ErrCodeContentTypeMismatch ErrorCode = "CONTENT_TYPE_MISMATCH"
	// ErrCodeDecode indicates a body that cannot be decoded for its declared content type.
	ErrCodeDecode ErrorCode = "DECODE_ERROR"
	// ErrCodeRPC indicates a JSON-RPC error object returned by the server.
	ErrCodeRPC ErrorCode = "RPC_ERROR"
)

// String returns the code as a plain string.
func (c ErrorCode) String() string { return string(c) }
