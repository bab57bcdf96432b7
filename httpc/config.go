package httpc

import (
	"fmt"
	"net/url"
	"time"

	"github.com/leoagomes/ctrq/validation"
)

const (
	// DefaultUserAgent is the user agent injected into every request.
	DefaultUserAgent = "ctrq/0.0.1"

	defaultPostBufferSize     = 2 * 1024 * 1024
	defaultDownloadBufferSize = 0x1000
	defaultHeaderBufferSize   = 4 * 1024
)

// Config configures the request service.
type Config struct {
	// PostBufferSize caps the total bytes accepted as a POST/PUT body.
	// Defaults to 2 MiB.
	PostBufferSize int `yaml:"post_buffer_size" mapstructure:"post_buffer_size" validate:"omitempty,gt=0"`

	// DownloadBufferSize is the staging buffer used per download call.
	// Must be a power of two. Defaults to 4096.
	DownloadBufferSize int `yaml:"download_buffer_size" mapstructure:"download_buffer_size" validate:"omitempty,gt=0"`

	// HeaderBufferSize caps the length of a single response header value.
	// Defaults to 4 KiB.
	HeaderBufferSize int `yaml:"header_buffer_size" mapstructure:"header_buffer_size" validate:"omitempty,gt=0"`

	// UserAgent overrides the default user agent literal.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout bounds each exchange. Zero means no timeout, matching the
	// platform the original bound to.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Proxies are proxy URLs selectable by slot. Slot 0 is always the
	// environment default; configured entries occupy slots 1..n.
	Proxies []string `yaml:"proxies" mapstructure:"proxies" validate:"omitempty,dive,url"`

	// TLS configures the client TLS transport (CA, client cert, min
	// version). Per-request verification disabling is layered on top.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`
}

// ApplyDefaults fills in zero-value fields with the platform defaults.
func (c *Config) ApplyDefaults() {
	if c.PostBufferSize <= 0 {
		c.PostBufferSize = defaultPostBufferSize
	}
	if c.DownloadBufferSize <= 0 {
		c.DownloadBufferSize = defaultDownloadBufferSize
	}
	if c.HeaderBufferSize <= 0 {
		c.HeaderBufferSize = defaultHeaderBufferSize
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if c.DownloadBufferSize&(c.DownloadBufferSize-1) != 0 {
		return fmt.Errorf("httpc: download_buffer_size must be a power of two (got %d)", c.DownloadBufferSize)
	}
	for i, p := range c.Proxies {
		u, err := url.Parse(p)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("httpc: proxies[%d] is not an absolute URL: %q", i, p)
		}
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
