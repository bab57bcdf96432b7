// Package httpc is the platform request service behind ctrq.
//
// It models one HTTP exchange as a Context: a handle that is opened
// for a method and URL, configured (TLS verification, keep-alive,
// headers), loaded with a body, begun, and then drained chunk by
// chunk. Contexts are independent; connection reuse happens inside
// the Service's transport cache.
//
//	svc, err := httpc.Initialize(httpc.Config{})
//	hc, err := svc.Open(http.MethodGet, "https://example.com", 0)
//	defer hc.Close()
//	err = hc.Begin(ctx)
//
// Every failing operation returns a *Result carrying a code and the
// underlying cause, so callers can record which step of a request
// went wrong.
package httpc
