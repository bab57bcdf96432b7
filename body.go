package ctrq

import (
	"encoding/json"
	"net/http"
)

// Form holds ASCII form parameters sent as the request body. Pairs are
// attached one by one in sorted key order; the first pair the platform
// rejects stops the attachment, and pairs attached before it are kept
// (the request can still be sent with a partial body).
type Form map[string]string

// attachBody attaches the request body, dispatching on its type.
func attachBody(res *Response, o options, body any) bool {
	switch v := body.(type) {
	case nil:
		return true
	case []byte:
		return attachRaw(res, v)
	case string:
		return attachRaw(res, []byte(v))
	case Form:
		return attachForm(res, v)
	case map[string]string:
		return attachForm(res, v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			res.fail(FailureAddRawData, err)
			return false
		}
		if !hasContentType(o.headers) {
			if err := res.ctx.AddRequestHeader("Content-Type", "application/json"); err != nil {
				res.fail(FailureSetHeader, err)
				return false
			}
		}
		return attachRaw(res, data)
	}
}

// attachRaw attaches an opaque byte payload in a single platform call.
func attachRaw(res *Response, data []byte) bool {
	if err := res.ctx.AddPostDataRaw(data); err != nil {
		res.fail(FailureAddRawData, err)
		return false
	}
	return true
}

// attachForm attaches each key-value pair individually, stopping at
// the first rejected pair without rolling back earlier ones.
func attachForm(res *Response, params map[string]string) bool {
	for _, k := range sortedKeys(params) {
		if err := res.ctx.AddPostDataASCII(k, params[k]); err != nil {
			res.fail(FailureAddASCIIParam, err)
			return false
		}
	}
	return true
}

func hasContentType(headers map[string]string) bool {
	for k := range headers {
		if http.CanonicalHeaderKey(k) == "Content-Type" {
			return true
		}
	}
	return false
}
