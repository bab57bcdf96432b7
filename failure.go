package ctrq

// Failure identifies which configuration or execution step of a
// request failed. Together with the recorded result error it forms the
// full outcome of a request: FailureNone plus a nil result means the
// request completed.
type Failure int

const (
	// FailureNone means no step has failed.
	FailureNone Failure = iota
	// FailureOpenContext means the request context could not be opened.
	FailureOpenContext
	// FailureDisableSSLVerify means certificate verification could not
	// be disabled.
	FailureDisableSSLVerify
	// FailureSetKeepAlive means the keep-alive policy could not be set.
	FailureSetKeepAlive
	// FailureSetKeepAliveHeader means the Connection header could not
	// be injected.
	FailureSetKeepAliveHeader
	// FailureSetUserAgent means the User-Agent header could not be injected.
	FailureSetUserAgent
	// FailureSetHeader means a caller-supplied header was rejected.
	FailureSetHeader
	// FailureBeginRequest means the request could not be sent.
	FailureBeginRequest
	// FailureStatusCode means the response status could not be read.
	FailureStatusCode
	// FailureAddRawData means the raw body could not be attached.
	FailureAddRawData
	// FailureAddASCIIParam means a form parameter could not be attached.
	FailureAddASCIIParam
)

// String returns the failure stage name.
func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "none"
	case FailureOpenContext:
		return "open_context"
	case FailureDisableSSLVerify:
		return "disable_ssl_verify"
	case FailureSetKeepAlive:
		return "set_keep_alive"
	case FailureSetKeepAliveHeader:
		return "set_keep_alive_header"
	case FailureSetUserAgent:
		return "set_user_agent"
	case FailureSetHeader:
		return "set_header"
	case FailureBeginRequest:
		return "begin_request"
	case FailureStatusCode:
		return "get_response_status_code"
	case FailureAddRawData:
		return "add_raw_post_data"
	case FailureAddASCIIParam:
		return "add_ascii_post_param"
	default:
		return "unknown"
	}
}
