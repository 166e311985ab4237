// Package routing holds the base URL used to build absolute links outside of an
// HTTP request, and the startup hook that configures it from project settings.
package routing

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
)

// BaseURISetter accepts a new base URI
type BaseURISetter interface {
	SetBaseURI(uri string) error
}

// RequestContext is the process-wide scheme/host/port/base path used when
// generating absolute URLs. It is safe for concurrent use.
type RequestContext struct {
	mu        sync.RWMutex
	scheme    string
	host      string
	httpPort  int
	httpsPort int
	basePath  string
}

// NewRequestContext returns a context pointing at http://localhost
func NewRequestContext() *RequestContext {
	return &RequestContext{
		scheme:    "http",
		host:      "localhost",
		httpPort:  80,
		httpsPort: 443,
	}
}

// SetBaseURI parses uri and replaces scheme, host, port and base path
func (c *RequestContext) SetBaseURI(uri string) error {
	parsed, err := url.Parse(uri)
	if err != nil {
		return fmt.Errorf("invalid base URI: %w", err)
	}
	if parsed.Scheme == "" || parsed.Hostname() == "" {
		return fmt.Errorf("base URI %q must be absolute", uri)
	}

	scheme := strings.ToLower(parsed.Scheme)
	httpPort, httpsPort := 80, 443
	if p := parsed.Port(); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("invalid port in base URI %q: %w", uri, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("port %d in base URI %q is out of range", port, uri)
		}
		if scheme == "https" {
			httpsPort = port
		} else {
			httpPort = port
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheme = scheme
	c.host = parsed.Hostname()
	c.httpPort = httpPort
	c.httpsPort = httpsPort
	c.basePath = strings.TrimRight(parsed.Path, "/")
	return nil
}

// Scheme returns the current scheme
func (c *RequestContext) Scheme() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scheme
}

// Host returns the current host name
func (c *RequestContext) Host() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.host
}

// Port returns the port for the current scheme
func (c *RequestContext) Port() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.scheme == "https" {
		return c.httpsPort
	}
	return c.httpPort
}

// BasePath returns the path prefix without a trailing slash
func (c *RequestContext) BasePath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.basePath
}

// BaseURL returns the absolute URL of the site root, without trailing slash
func (c *RequestContext) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	host := c.host
	switch {
	case c.scheme == "http" && c.httpPort != 80:
		host += ":" + strconv.Itoa(c.httpPort)
	case c.scheme == "https" && c.httpsPort != 443:
		host += ":" + strconv.Itoa(c.httpsPort)
	}
	return c.scheme + "://" + host + c.basePath
}

// URL builds an absolute URL for a site path
func (c *RequestContext) URL(path string) string {
	return c.BaseURL() + "/" + strings.TrimLeft(path, "/")
}
