package httpc

import (
	"errors"
	"fmt"
)

// ResultCode classifies platform-level request failures.
type ResultCode int

const (
	// ResultBadMethod indicates an unsupported HTTP method.
	ResultBadMethod ResultCode = iota
	// ResultBadURL indicates the URL could not be parsed or has an
	// unsupported scheme.
	ResultBadURL
	// ResultBadProxy indicates the proxy slot is out of range.
	ResultBadProxy
	// ResultBadHeader indicates an invalid header name or value.
	ResultBadHeader
	// ResultNotASCII indicates a form field or value contains non-ASCII bytes.
	ResultNotASCII
	// ResultBufferFull indicates the request body exceeds the service's
	// POST/PUT buffer size.
	ResultBufferFull
	// ResultTimeout indicates the exchange was cut short by a deadline
	// or cancellation.
	ResultTimeout
	// ResultNetwork indicates a connection-level failure (refused, DNS,
	// TLS handshake, broken exchange).
	ResultNetwork
	// ResultClosed indicates the context has already been closed.
	ResultClosed
	// ResultNotBegun indicates the request has not been sent yet.
	ResultNotBegun
	// ResultAlreadyBegun indicates the request was already sent and the
	// context can no longer be configured.
	ResultAlreadyBegun
	// ResultDownloadBroken indicates the response body failed mid-download.
	ResultDownloadBroken
	// ResultBadBuffer indicates an empty staging buffer was passed to Download.
	ResultBadBuffer
	// ResultTerminated indicates the owning service has been terminated.
	ResultTerminated
)

// String returns the result code name.
func (c ResultCode) String() string {
	switch c {
	case ResultBadMethod:
		return "bad_method"
	case ResultBadURL:
		return "bad_url"
	case ResultBadProxy:
		return "bad_proxy"
	case ResultBadHeader:
		return "bad_header"
	case ResultNotASCII:
		return "not_ascii"
	case ResultBufferFull:
		return "buffer_full"
	case ResultTimeout:
		return "timeout"
	case ResultNetwork:
		return "network"
	case ResultClosed:
		return "closed"
	case ResultNotBegun:
		return "not_begun"
	case ResultAlreadyBegun:
		return "already_begun"
	case ResultDownloadBroken:
		return "download_broken"
	case ResultBadBuffer:
		return "bad_buffer"
	case ResultTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Result is a structured platform error with classification.
type Result struct {
	// Code classifies the failure.
	Code ResultCode
	// Message describes the failure.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (r *Result) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("httpc: %s: %s: %v", r.Code, r.Message, r.Err)
	}
	return fmt.Sprintf("httpc: %s: %s", r.Code, r.Message)
}

// Unwrap returns the underlying error.
func (r *Result) Unwrap() error {
	return r.Err
}

func newResult(code ResultCode, msg string) *Result {
	return &Result{Code: code, Message: msg}
}

func wrapResult(code ResultCode, msg string, err error) *Result {
	return &Result{Code: code, Message: msg, Err: err}
}

// CodeOf extracts the result code from an error. The boolean reports
// whether the error is (or wraps) a *Result.
func CodeOf(err error) (ResultCode, bool) {
	var r *Result
	if errors.As(err, &r) {
		return r.Code, true
	}
	return 0, false
}

func is(err error, code ResultCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}

// IsClosed checks if an error reports a closed context.
func IsClosed(err error) bool { return is(err, ResultClosed) }

// IsNotASCII checks if an error reports a non-ASCII form parameter.
func IsNotASCII(err error) bool { return is(err, ResultNotASCII) }

// IsBadHeader checks if an error reports a rejected header.
func IsBadHeader(err error) bool { return is(err, ResultBadHeader) }

// IsTimeout checks if an error reports a deadline or cancellation.
func IsTimeout(err error) bool { return is(err, ResultTimeout) }

// IsNetwork checks if an error reports a connection-level failure.
func IsNetwork(err error) bool { return is(err, ResultNetwork) }
