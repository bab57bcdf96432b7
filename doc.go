// Package ctrq is an ergonomic request layer over the httpc request
// service: verb helpers that open a context, apply configuration,
// attach a body, send, and hand back a Response with lazy header and
// body accessors.
//
//	res := ctrq.Get(ctx, "https://example.com",
//	    ctrq.WithHeaders(map[string]string{"Accept": "text/html"}))
//	defer res.Close()
//
//	if res.HasFailed() {
//	    log.Printf("request failed at %s: %v", res.Failure, res.Result)
//	    return
//	}
//	fmt.Println(res.Status, res.BodyString())
//
// Failures never panic and are never returned as bare errors from the
// verbs: each step's outcome lands on the Response as a failure stage
// plus the underlying error, and a failed Response stays safe to
// inspect and close.
package ctrq
