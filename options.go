package ctrq

import (
	"github.com/leoagomes/ctrq/httpc"
)

// options collects per-request settings. Defaults mirror the original
// call surface: environment proxy, certificate verification disabled,
// keep-alive enabled.
type options struct {
	headers           map[string]string
	proxy             int
	sslVerifyDisabled bool
	keepAlive         bool
	service           *httpc.Service
}

// Option configures a single request.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		sslVerifyDisabled: true,
		keepAlive:         true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHeaders merges the given headers into the request. Keys are
// applied in sorted order.
func WithHeaders(headers map[string]string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.headers[k] = v
		}
	}
}

// WithHeader sets a single request header.
func WithHeader(name, value string) Option {
	return func(o *options) {
		if o.headers == nil {
			o.headers = make(map[string]string, 1)
		}
		o.headers[name] = value
	}
}

// WithProxy selects a proxy slot from the service configuration.
// Slot 0 is the environment default.
func WithProxy(slot int) Option {
	return func(o *options) {
		o.proxy = slot
	}
}

// WithSSLVerification re-enables server certificate verification,
// which the original surface leaves off by default.
func WithSSLVerification() Option {
	return func(o *options) {
		o.sslVerifyDisabled = false
	}
}

// WithoutKeepAlive disables connection reuse for this request and
// suppresses the Connection header.
func WithoutKeepAlive() Option {
	return func(o *options) {
		o.keepAlive = false
	}
}

// WithService runs the request against a specific service instead of
// the package-level one.
func WithService(svc *httpc.Service) Option {
	return func(o *options) {
		o.service = svc
	}
}
