package ctrq

import (
	"context"
	"net/http"
	"sort"
	"sync"

	"github.com/leoagomes/ctrq/httpc"
)

var (
	defaultMu  sync.Mutex
	defaultSvc *httpc.Service
)

// Initialize creates the package-level request service used by the
// verb functions. Calling a verb without initializing first sets the
// service up with default configuration.
func Initialize(cfg httpc.Config) error {
	svc, err := httpc.Initialize(cfg)
	if err != nil {
		return err
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSvc != nil {
		defaultSvc.Terminate()
	}
	defaultSvc = svc
	return nil
}

// Terminate releases the package-level request service.
func Terminate() {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSvc != nil {
		defaultSvc.Terminate()
		defaultSvc = nil
	}
}

// defaultService returns the package-level service, initializing it
// with defaults on first use.
func defaultService() (*httpc.Service, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultSvc == nil {
		svc, err := httpc.Initialize(httpc.Config{})
		if err != nil {
			return nil, err
		}
		defaultSvc = svc
	}
	return defaultSvc, nil
}

// Get performs a GET request. Inspect the returned Response's Failure
// and Result before trusting Status; close it when done.
func Get(ctx context.Context, url string, opts ...Option) *Response {
	return request(ctx, http.MethodGet, url, nil, opts)
}

// Post performs a POST request. Body accepts nil, []byte (raw bytes),
// string (text), Form or map[string]string (ASCII form parameters), or
// any JSON-marshalable value.
func Post(ctx context.Context, url string, body any, opts ...Option) *Response {
	return request(ctx, http.MethodPost, url, body, opts)
}

// Put performs a PUT request. Body semantics match Post.
func Put(ctx context.Context, url string, body any, opts ...Option) *Response {
	return request(ctx, http.MethodPut, url, body, opts)
}

// Delete performs a DELETE request.
func Delete(ctx context.Context, url string, opts ...Option) *Response {
	return request(ctx, http.MethodDelete, url, nil, opts)
}

// request runs the shared verb sequence: open and configure a context,
// attach the body, send, and read the status. The first failing step
// short-circuits and the partially populated Response is returned.
func request(ctx context.Context, method, url string, body any, opts []Option) *Response {
	o := newOptions(opts)

	res := &Response{}

	svc := o.service
	if svc == nil {
		var err error
		svc, err = defaultService()
		if err != nil {
			res.fail(FailureOpenContext, err)
			return res
		}
	}
	res.stagingSize = svc.Config().DownloadBufferSize

	if !setup(res, svc, method, url, o) {
		return res
	}
	if !attachBody(res, o, body) {
		return res
	}
	execute(ctx, res)
	return res
}

// setup opens the context and applies the configuration sequence:
// TLS verification policy, fixed User-Agent, caller headers in sorted
// key order, keep-alive policy, and the Connection header when
// keep-alive is on. The first failure aborts the rest.
func setup(res *Response, svc *httpc.Service, method, url string, o options) bool {
	hc, err := svc.Open(method, url, o.proxy)
	if err != nil {
		res.fail(FailureOpenContext, err)
		return false
	}
	res.ctx = hc

	if o.sslVerifyDisabled {
		if err := hc.SetSSLVerifyDisabled(true); err != nil {
			res.fail(FailureDisableSSLVerify, err)
			return false
		}
	}

	if err := hc.AddRequestHeader("User-Agent", svc.Config().UserAgent); err != nil {
		res.fail(FailureSetUserAgent, err)
		return false
	}

	for _, k := range sortedKeys(o.headers) {
		if err := hc.AddRequestHeader(k, o.headers[k]); err != nil {
			res.fail(FailureSetHeader, err)
			return false
		}
	}

	if err := hc.SetKeepAlive(o.keepAlive); err != nil {
		res.fail(FailureSetKeepAlive, err)
		return false
	}
	if o.keepAlive {
		if err := hc.AddRequestHeader("Connection", "Keep-Alive"); err != nil {
			res.fail(FailureSetKeepAliveHeader, err)
			return false
		}
	}

	return true
}

// execute sends the request and records the response status.
func execute(ctx context.Context, res *Response) bool {
	if err := res.ctx.Begin(ctx); err != nil {
		res.fail(FailureBeginRequest, err)
		return false
	}
	status, err := res.ctx.ResponseStatusCode()
	if err != nil {
		res.fail(FailureStatusCode, err)
		return false
	}
	res.Status = status
	return true
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
