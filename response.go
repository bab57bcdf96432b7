package ctrq

import (
	"github.com/leoagomes/ctrq/httpc"
)

// Response is the outcome of one request. A Response owns its
// underlying request context and must be closed (or allowed to fail
// before a context was opened) to release it. Accessors stay safe to
// call on failed or closed Responses; they return empty values instead
// of doing further I/O.
type Response struct {
	// Status is the HTTP status code, or 0 if the request never
	// completed.
	Status int
	// Failure marks the step that failed, FailureNone otherwise.
	Failure Failure
	// Result is the underlying error of the most recent failure.
	Result error

	ctx         *httpc.Context
	stagingSize int
	closed      bool

	body          []byte
	bodyPopulated bool

	bodyString          string
	bodyStringPopulated bool
}

// HasFailed reports whether any step of the request failed.
func (r *Response) HasFailed() bool {
	return r.Result != nil
}

// fail records a failure stage and its underlying error.
func (r *Response) fail(stage Failure, err error) {
	r.Failure = stage
	r.Result = err
}

// Header returns a single response header value. It returns the empty
// string when the header is absent, the request never completed, or
// the Response is closed.
func (r *Response) Header(name string) string {
	if r.closed || r.ctx == nil {
		return ""
	}
	v, err := r.ctx.ResponseHeader(name)
	if err != nil {
		return ""
	}
	return v
}

// Body downloads and returns the response body. The download runs at
// most once: the body is drained through a fixed staging buffer and
// cached, and every later call returns the same bytes. After Close,
// Body returns whatever was cached (empty if never downloaded).
func (r *Response) Body() []byte {
	if r.bodyPopulated || r.closed || r.ctx == nil {
		return r.body
	}

	buf := make([]byte, r.stagingSize)
	for {
		n, pending, err := r.ctx.Download(buf)
		r.body = append(r.body, buf[:n]...)
		if err != nil {
			// A context that never reached Begin has no body; that is
			// not a new failure, just an empty result.
			if code, ok := httpc.CodeOf(err); !ok || code != httpc.ResultNotBegun {
				r.Result = err
			}
			break
		}
		if !pending {
			break
		}
	}

	r.bodyPopulated = true
	return r.body
}

// BodyString returns the response body as text. Derived from Body and
// cached independently.
func (r *Response) BodyString() string {
	if r.bodyStringPopulated || r.closed {
		return r.bodyString
	}
	r.bodyString = string(r.Body())
	r.bodyStringPopulated = true
	return r.bodyString
}

// Close releases the underlying request context. Closing twice is a
// no-op; accessors called after Close return cached values only.
func (r *Response) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	if r.ctx != nil {
		return r.ctx.Close()
	}
	return nil
}
