package httpc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/http/httpguts"

	"github.com/leoagomes/ctrq/logger"
)

type contextState int

const (
	stateOpen contextState = iota
	stateBegun
	stateClosed
)

// Context is one configured HTTP exchange. It is not safe for
// concurrent use; callers that share a Context synchronize themselves.
type Context struct {
	svc    *Service
	id     string
	method string
	url    *url.URL
	proxy  int

	header            http.Header
	sslVerifyDisabled bool
	keepAlive         bool

	rawBody []byte
	form    []formPair

	state  contextState
	resp   *http.Response
	status int
}

// formPair is one attached ASCII body parameter. Pairs keep their
// attachment order, including pairs attached before a later one failed.
type formPair struct {
	field string
	value string
}

// ID returns the context's identifier, used for log correlation.
func (c *Context) ID() string {
	return c.id
}

// SetSSLVerifyDisabled toggles server certificate verification for
// this exchange.
func (c *Context) SetSSLVerifyDisabled(disabled bool) error {
	if err := c.configurable(); err != nil {
		return err
	}
	c.sslVerifyDisabled = disabled
	return nil
}

// SetKeepAlive sets the connection reuse policy for this exchange.
func (c *Context) SetKeepAlive(enabled bool) error {
	if err := c.configurable(); err != nil {
		return err
	}
	c.keepAlive = enabled
	return nil
}

// AddRequestHeader sets a request header. An invalid name or value is
// rejected with ResultBadHeader. Setting the same name again overwrites.
func (c *Context) AddRequestHeader(name, value string) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if !httpguts.ValidHeaderFieldName(name) {
		return newResult(ResultBadHeader, fmt.Sprintf("invalid header name %q", name))
	}
	if !httpguts.ValidHeaderFieldValue(value) {
		return newResult(ResultBadHeader, fmt.Sprintf("invalid value for header %q", name))
	}
	c.header.Set(name, value)
	return nil
}

// AddPostDataRaw appends opaque bytes to the request body. The total
// body may not exceed the service's POST buffer size.
func (c *Context) AddPostDataRaw(p []byte) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if len(c.rawBody)+len(p) > c.svc.config.PostBufferSize {
		return newResult(ResultBufferFull, fmt.Sprintf("body exceeds post buffer size %d", c.svc.config.PostBufferSize))
	}
	c.rawBody = append(c.rawBody, p...)
	return nil
}

// AddPostDataASCII appends one body parameter. Field and value must be
// ASCII; a rejected pair leaves previously attached pairs in place.
func (c *Context) AddPostDataASCII(field, value string) error {
	if err := c.configurable(); err != nil {
		return err
	}
	if !isASCII(field) {
		return newResult(ResultNotASCII, fmt.Sprintf("field %q is not ASCII", field))
	}
	if !isASCII(value) {
		return newResult(ResultNotASCII, fmt.Sprintf("value for field %q is not ASCII", field))
	}
	c.form = append(c.form, formPair{field: field, value: value})
	return nil
}

// Begin sends the request and records the response. After Begin the
// context can no longer be configured.
func (c *Context) Begin(ctx context.Context) error {
	switch c.state {
	case stateClosed:
		return newResult(ResultClosed, "context is closed")
	case stateBegun:
		return newResult(ResultAlreadyBegun, "request already begun")
	}

	req, err := c.buildRequest(ctx)
	if err != nil {
		return err
	}

	client := &http.Client{
		Transport: c.svc.transport(c.proxy, c.sslVerifyDisabled, c.keepAlive),
		Timeout:   c.svc.config.Timeout,
	}

	resp, doErr := client.Do(req)
	if doErr != nil {
		if ctx.Err() != nil {
			return wrapResult(ResultTimeout, "exchange cancelled", doErr)
		}
		return wrapResult(ResultNetwork, "exchange failed", doErr)
	}

	c.resp = resp
	c.status = resp.StatusCode
	c.state = stateBegun

	c.svc.log.Debug("request begun", logger.Fields(
		logger.FieldContextID, c.id,
		"method", c.method,
		logger.FieldStatus, c.status,
	))
	return nil
}

// ResponseStatusCode returns the status code of the begun exchange.
func (c *Context) ResponseStatusCode() (int, error) {
	if err := c.begun(); err != nil {
		return 0, err
	}
	return c.status, nil
}

// ResponseHeader returns a single response header value, truncated to
// the service's header buffer size. A header absent from the response
// yields an empty string and no error.
func (c *Context) ResponseHeader(name string) (string, error) {
	if err := c.begun(); err != nil {
		return "", err
	}
	v := c.resp.Header.Get(name)
	if max := c.svc.config.HeaderBufferSize; len(v) > max {
		v = v[:max]
	}
	return v, nil
}

// Download reads the next chunk of the response body into buf. It
// returns the number of bytes staged and whether more data is pending.
// The exchange is fully drained once pending is false.
func (c *Context) Download(buf []byte) (int, bool, error) {
	if err := c.begun(); err != nil {
		return 0, false, err
	}
	if len(buf) == 0 {
		return 0, false, newResult(ResultBadBuffer, "empty staging buffer")
	}

	n, err := c.resp.Body.Read(buf)
	switch {
	case err == nil:
		return n, true, nil
	case err == io.EOF:
		return n, false, nil
	default:
		return n, false, wrapResult(ResultDownloadBroken, "read response body", err)
	}
}

// Close releases the context. Safe to call more than once; all calls
// after the first are no-ops.
func (c *Context) Close() error {
	if c.state == stateClosed {
		return nil
	}
	prev := c.state
	c.state = stateClosed
	c.svc.log.Debug("context closed", logger.Fields(logger.FieldContextID, c.id))
	if prev == stateBegun && c.resp != nil {
		return c.resp.Body.Close()
	}
	return nil
}

// buildRequest assembles the *http.Request from the accumulated
// configuration.
func (c *Context) buildRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	contentType := ""

	switch {
	case len(c.rawBody) > 0:
		body = bytes.NewReader(c.rawBody)
	case len(c.form) > 0:
		vals := make(url.Values, len(c.form))
		for _, p := range c.form {
			vals.Add(p.field, p.value)
		}
		encoded := vals.Encode()
		if len(encoded) > c.svc.config.PostBufferSize {
			return nil, newResult(ResultBufferFull, fmt.Sprintf("form body exceeds post buffer size %d", c.svc.config.PostBufferSize))
		}
		body = strings.NewReader(encoded)
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(ctx, c.method, c.url.String(), body)
	if err != nil {
		return nil, wrapResult(ResultBadURL, "create request", err)
	}

	for k, v := range c.header {
		if len(v) > 0 {
			req.Header.Set(k, v[0])
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !c.keepAlive {
		req.Close = true
	}
	return req, nil
}

// configurable guards operations that only make sense before Begin.
func (c *Context) configurable() error {
	switch c.state {
	case stateClosed:
		return newResult(ResultClosed, "context is closed")
	case stateBegun:
		return newResult(ResultAlreadyBegun, "request already begun")
	}
	return nil
}

// begun guards operations that only make sense after Begin.
func (c *Context) begun() error {
	switch c.state {
	case stateClosed:
		return newResult(ResultClosed, "context is closed")
	case stateOpen:
		return newResult(ResultNotBegun, "request not begun")
	}
	return nil
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7f {
			return false
		}
	}
	return true
}
