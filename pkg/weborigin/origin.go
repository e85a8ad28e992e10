// Package weborigin serializes the origin of web addresses the way browsers
// report it in MessageEvent.origin and accept it as a postMessage target.
package weborigin

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrNoWebOrigin is returned for addresses without an http or https origin.
var ErrNoWebOrigin = errors.New("weborigin: address has no web origin")

// Of returns scheme://host[:port] for an http or https address. Scheme and
// host are lowercased and default ports dropped.
func Of(address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(u.Scheme)
	if (scheme != "http" && scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrNoWebOrigin, address)
	}
	host := strings.ToLower(u.Hostname())
	port := u.Port()
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		port = ""
	}
	if port != "" {
		return scheme + "://" + net.JoinHostPort(host, port), nil
	}
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	return scheme + "://" + host, nil
}

// Same reports whether a and b share an origin.
func Same(a, b string) bool {
	oa, err := Of(a)
	if err != nil {
		return false
	}
	ob, err := Of(b)
	if err != nil {
		return false
	}
	return oa == ob
}
