package httpc

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestService(t *testing.T, cfg Config) *Service {
	t.Helper()
	svc, err := Initialize(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(svc.Terminate)
	return svc
}

func TestOpen_Validation(t *testing.T) {
	svc := newTestService(t, Config{})

	tests := []struct {
		name   string
		method string
		url    string
		proxy  int
		code   ResultCode
	}{
		{"bad method", "TRACE", "http://example.com", 0, ResultBadMethod},
		{"bad scheme", http.MethodGet, "ftp://example.com", 0, ResultBadURL},
		{"missing host", http.MethodGet, "http://", 0, ResultBadURL},
		{"unparsable", http.MethodGet, "http://exa mple.com", 0, ResultBadURL},
		{"proxy out of range", http.MethodGet, "http://example.com", 3, ResultBadProxy},
		{"negative proxy", http.MethodGet, "http://example.com", -1, ResultBadProxy},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Open(tc.method, tc.url, tc.proxy)
			if err == nil {
				t.Fatal("expected error")
			}
			if code, ok := CodeOf(err); !ok || code != tc.code {
				t.Errorf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestOpen_AfterTerminate(t *testing.T) {
	svc, err := Initialize(Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	svc.Terminate()
	svc.Terminate() // idempotent

	if _, err := svc.Open(http.MethodGet, "http://example.com", 0); err == nil {
		t.Fatal("expected error after terminate")
	} else if code, _ := CodeOf(err); code != ResultTerminated {
		t.Errorf("expected terminated, got %v", err)
	}
}

func TestContext_Exchange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Probe"); got != "1" {
			t.Errorf("expected X-Probe=1, got %q", got)
		}
		w.Header().Set("X-Reply", "ok")
		io.WriteString(w, "payload")
	}))
	defer srv.Close()

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodGet, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.AddRequestHeader("X-Probe", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Begin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	status, err := c.ResponseStatusCode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != 200 {
		t.Errorf("expected 200, got %d", status)
	}

	header, err := c.ResponseHeader("X-Reply")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if header != "ok" {
		t.Errorf("expected ok, got %q", header)
	}

	missing, err := c.ResponseHeader("X-Missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if missing != "" {
		t.Errorf("expected empty value, got %q", missing)
	}

	var body []byte
	buf := make([]byte, 4)
	for {
		n, pending, err := c.Download(buf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		body = append(body, buf[:n]...)
		if !pending {
			break
		}
	}
	if string(body) != "payload" {
		t.Errorf("expected payload, got %q", body)
	}
}

func TestContext_StateGuards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
	}))
	defer srv.Close()

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodGet, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	// Before Begin: response accessors must refuse.
	if _, err := c.ResponseStatusCode(); !is(err, ResultNotBegun) {
		t.Errorf("expected not_begun, got %v", err)
	}
	if _, _, err := c.Download(make([]byte, 8)); !is(err, ResultNotBegun) {
		t.Errorf("expected not_begun, got %v", err)
	}

	if err := c.Begin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// After Begin: configuration must refuse.
	if err := c.SetKeepAlive(false); !is(err, ResultAlreadyBegun) {
		t.Errorf("expected already_begun, got %v", err)
	}
	if err := c.AddRequestHeader("X", "y"); !is(err, ResultAlreadyBegun) {
		t.Errorf("expected already_begun, got %v", err)
	}
	if err := c.Begin(context.Background()); !is(err, ResultAlreadyBegun) {
		t.Errorf("expected already_begun, got %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Fatalf("second close should be a no-op, got %v", err)
	}

	// After Close: everything refuses.
	if _, err := c.ResponseStatusCode(); !is(err, ResultClosed) {
		t.Errorf("expected closed, got %v", err)
	}
	if err := c.SetSSLVerifyDisabled(true); !is(err, ResultClosed) {
		t.Errorf("expected closed, got %v", err)
	}
}

func TestContext_RejectedHeaders(t *testing.T) {
	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodGet, "http://example.com", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.AddRequestHeader("Bad Name", "v"); !IsBadHeader(err) {
		t.Errorf("expected bad_header for invalid name, got %v", err)
	}
	if err := c.AddRequestHeader("X-Ok", "bad\x00value"); !IsBadHeader(err) {
		t.Errorf("expected bad_header for invalid value, got %v", err)
	}
	if err := c.AddRequestHeader("X-Ok", "fine"); err != nil {
		t.Errorf("unexpected error for valid header: %v", err)
	}
}

func TestContext_ASCIIParams(t *testing.T) {
	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodPost, "http://example.com", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.AddPostDataASCII("a", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddPostDataASCII("b", "café"); !IsNotASCII(err) {
		t.Errorf("expected not_ascii, got %v", err)
	}
	// The failed pair is skipped, earlier pairs stay attached.
	if len(c.form) != 1 || c.form[0].field != "a" {
		t.Errorf("expected one attached pair, got %+v", c.form)
	}
}

func TestContext_PostBufferLimit(t *testing.T) {
	svc := newTestService(t, Config{PostBufferSize: 8})
	c, err := svc.Open(http.MethodPost, "http://example.com", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.AddPostDataRaw([]byte("12345")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddPostDataRaw([]byte("6789")); err == nil {
		t.Fatal("expected buffer_full")
	} else if code, _ := CodeOf(err); code != ResultBufferFull {
		t.Errorf("expected buffer_full, got %v", err)
	}
}

func TestContext_FormBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("expected form content type, got %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if string(body) != "a=1&b=2" {
			t.Errorf("expected a=1&b=2, got %q", body)
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodPost, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.AddPostDataASCII("a", "1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.AddPostDataASCII("b", "2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Begin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestContext_RawBody(t *testing.T) {
	payload := bytes.Repeat([]byte{0xab}, 64)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if !bytes.Equal(body, payload) {
			t.Error("raw payload mismatch")
		}
		w.WriteHeader(200)
	}))
	defer srv.Close()

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodPut, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.AddPostDataRaw(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Begin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestContext_HeaderTruncation(t *testing.T) {
	long := strings.Repeat("x", 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Long", long)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	svc := newTestService(t, Config{HeaderBufferSize: 16})
	c, err := svc.Open(http.MethodGet, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.Begin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, err := c.ResponseHeader("X-Long")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != long[:16] {
		t.Errorf("expected value truncated to 16 bytes, got %d bytes", len(v))
	}
}

func TestContext_DownloadEmptyBuffer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "x")
	}))
	defer srv.Close()

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodGet, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.Begin(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := c.Download(nil); !is(err, ResultBadBuffer) {
		t.Errorf("expected bad_buffer, got %v", err)
	}
}

func TestContext_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodGet, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	if err := c.Begin(context.Background()); !IsNetwork(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestContext_BeginCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	svc := newTestService(t, Config{})
	c, err := svc.Open(http.MethodGet, srv.URL, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Begin(ctx); !IsTimeout(err) {
		t.Errorf("expected timeout, got %v", err)
	}
}
