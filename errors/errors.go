package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified reqkit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// --- Constructors ---

// Validation creates an error for input rejected at construction or configuration time.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message}
}

// IO creates an error for a filesystem path that cannot be used.
func IO(path string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeIO, Message: fmt.Sprintf("path %q is not readable", path),
		Details: map[string]any{"path": path}, Cause: cause,
	}
}

// Capability creates an error for a transport missing a required feature.
func Capability(feature string) *AppError {
	return &AppError{
		Code: ErrCodeCapability, Message: fmt.Sprintf("%s support is unavailable", feature),
		Details: map[string]any{"feature": feature},
	}
}

// Transport creates an error for a failed exchange. code is the transport's
// numeric error code and message its error string.
func Transport(code int, message string) *AppError {
	return &AppError{
		Code: ErrCodeTransport, Message: fmt.Sprintf("[%d] %s", code, message),
		Details: map[string]any{"code": code, "message": message},
	}
}

// ContentTypeMismatch creates an error for a response that violates the accept constraint.
func ContentTypeMismatch(expected, actual string) *AppError {
	return &AppError{
		Code: ErrCodeContentTypeMismatch, Message: fmt.Sprintf("expecting response in %q, got %q", expected, actual),
		Details: map[string]any{"expected": expected, "actual": actual},
	}
}

// Decode creates an error for a body that does not parse as its content type.
func Decode(contentType string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecode, Message: fmt.Sprintf("cannot decode %s body", contentType),
		Details: map[string]any{"content_type": contentType}, Cause: cause,
	}
}

// RPC creates an error from a JSON-RPC error object.
func RPC(code int, message string, data any) *AppError {
	e := &AppError{
		Code: ErrCodeRPC, Message: fmt.Sprintf("rpc error %d: %s", code, message),
		Details: map[string]any{"code": code, "message": message},
	}
	if data != nil {
		e.Details["data"] = data
	}
	return e
}

// --- Inspection ---

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// CodeOf returns the code of the first AppError in err's chain, or "".
func CodeOf(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ""
}

func hasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return hasCode(err, ErrCodeValidation) }

// IsIO reports whether err is an IO error.
func IsIO(err error) bool { return hasCode(err, ErrCodeIO) }

// IsCapability reports whether err is a capability error.
func IsCapability(err error) bool { return hasCode(err, ErrCodeCapability) }

// IsTransport reports whether err is a transport error.
func IsTransport(err error) bool { return hasCode(err, ErrCodeTransport) }

// IsContentTypeMismatch reports whether err is a content type mismatch.
func IsContentTypeMismatch(err error) bool { return hasCode(err, ErrCodeContentTypeMismatch) }

// IsDecode reports whether err is a decode error.
func IsDecode(err error) bool { return hasCode(err, ErrCodeDecode) }

// IsRPC reports whether err is a JSON-RPC error.
func IsRPC(err error) bool { return hasCode(err, ErrCodeRPC) }
