// Package site models a benchmarking target: a URL plus an optional
// resolved IP used to reach the host from inside a container.
package site

import (
	"fmt"
	"net/url"
	"strings"
)

// Site is immutable once constructed.
type Site struct {
	url *url.URL
	ip  string
}

// Parse validates raw as an absolute http(s) URL. A bare scheme://host
// URL is normalized by appending "/".
func Parse(raw string) (*Site, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("not a valid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("URL must use http or https, got %q", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("URL %q has no host", raw)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return &Site{url: u}, nil
}

// URL returns the full target URL.
func (s *Site) URL() string { return s.url.String() }

// Host returns the hostname without port.
func (s *Site) Host() string { return s.url.Hostname() }

// IP returns the resolved host IP, or "" when none was needed.
func (s *Site) IP() string { return s.ip }

// WithIP returns a copy of the site carrying the resolved IP.
func (s *Site) WithIP(ip string) *Site {
	u := *s.url
	return &Site{url: &u, ip: ip}
}

func (s *Site) String() string { return s.URL() }
