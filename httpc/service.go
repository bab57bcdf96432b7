package httpc

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"

	"github.com/leoagomes/ctrq/logger"
)

// Service is the process-wide request service. It owns the transport
// cache and hands out independent request Contexts.
type Service struct {
	config  Config
	baseTLS *tls.Config
	proxies []*url.URL
	log     *logger.Logger

	mu         sync.Mutex
	transports map[transportKey]*http.Transport
	terminated bool
}

// transportKey identifies one cached transport configuration.
type transportKey struct {
	proxy       int
	skipVerify  bool
	disableKeep bool
}

// Initialize creates a request service with the given configuration.
func Initialize(cfg Config) (*Service, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	baseTLS, err := cfg.TLS.build()
	if err != nil {
		return nil, err
	}

	proxies := make([]*url.URL, len(cfg.Proxies))
	for i, p := range cfg.Proxies {
		// Validate already checked these parse.
		proxies[i], _ = url.Parse(p)
	}

	return &Service{
		config:     cfg,
		baseTLS:    baseTLS,
		proxies:    proxies,
		log:        logger.Get("httpc"),
		transports: make(map[transportKey]*http.Transport),
	}, nil
}

// Config returns the service configuration after defaults were applied.
func (s *Service) Config() Config {
	return s.config
}

// Open creates a request context for method and rawURL via the given
// proxy slot (0 selects the environment default).
func (s *Service) Open(method, rawURL string, proxy int) (*Context, error) {
	s.mu.Lock()
	terminated := s.terminated
	s.mu.Unlock()
	if terminated {
		return nil, newResult(ResultTerminated, "service has been terminated")
	}

	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodHead:
	default:
		return nil, newResult(ResultBadMethod, fmt.Sprintf("unsupported method %q", method))
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, wrapResult(ResultBadURL, fmt.Sprintf("parse %q", rawURL), err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, newResult(ResultBadURL, fmt.Sprintf("unsupported scheme %q", u.Scheme))
	}
	if u.Host == "" {
		return nil, newResult(ResultBadURL, fmt.Sprintf("missing host in %q", rawURL))
	}

	if proxy < 0 || proxy > len(s.proxies) {
		return nil, newResult(ResultBadProxy, fmt.Sprintf("proxy slot %d out of range (have %d)", proxy, len(s.proxies)))
	}

	c := &Context{
		svc:       s,
		id:        uuid.NewString(),
		method:    method,
		url:       u,
		proxy:     proxy,
		header:    make(http.Header),
		keepAlive: true,
	}

	s.log.Debug("context opened", logger.Fields(
		logger.FieldContextID, c.id,
		"method", method,
		"url", u.Redacted(),
		"proxy", proxy,
	))
	return c, nil
}

// Terminate releases the service. Open contexts keep working against
// their already-acquired transports; new Opens fail. Idempotent.
func (s *Service) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return
	}
	s.terminated = true
	for _, t := range s.transports {
		t.CloseIdleConnections()
	}
	s.log.Debug("service terminated")
}

// transport returns the cached transport for a context's settings,
// building it on first use.
func (s *Service) transport(proxy int, skipVerify, keepAlive bool) *http.Transport {
	key := transportKey{proxy: proxy, skipVerify: skipVerify, disableKeep: !keepAlive}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.transports[key]; ok {
		return t
	}

	t := http.DefaultTransport.(*http.Transport).Clone()
	if s.baseTLS != nil {
		t.TLSClientConfig = s.baseTLS.Clone()
	}
	if skipVerify {
		if t.TLSClientConfig == nil {
			t.TLSClientConfig = &tls.Config{}
		}
		t.TLSClientConfig.InsecureSkipVerify = true
	}
	t.DisableKeepAlives = !keepAlive
	if proxy > 0 {
		t.Proxy = http.ProxyURL(s.proxies[proxy-1])
	}

	s.transports[key] = t
	return t
}
