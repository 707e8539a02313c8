package urlutil

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

var (
	ErrEmptyURL          = errors.New("empty url")
	ErrMissingHost       = errors.New("missing host")
	ErrUnsupportedScheme = errors.New("unsupported scheme")
)

// Validate checks that raw is an absolute http(s) URL with a host.
func Validate(raw string) error {
	_, err := parse(raw)
	return err
}

// Normalize returns a deterministic form of raw suitable for logging and
// history records: lowercased scheme and host, IDN host converted to
// punycode, default ports stripped, userinfo and fragment dropped. The
// path and query are left untouched so the request on the wire is the one
// the caller asked for.
func Normalize(raw string) (string, error) {
	u, err := parse(raw)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(u.Hostname())
	if puny, err := idna.Lookup.ToASCII(host); err == nil {
		host = puny
	}

	port := u.Port()
	switch {
	case (u.Scheme == "http" && port == "80") || (u.Scheme == "https" && port == "443"):
		u.Host = bracketHost(host)
	case port != "":
		u.Host = net.JoinHostPort(host, port)
	default:
		u.Host = bracketHost(host)
	}

	u.User = nil
	u.Fragment = ""

	return u.String(), nil
}

func parse(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrEmptyURL
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("couldn't parse url %s: %w", raw, err)
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	u.Scheme = scheme

	if u.Host == "" {
		return nil, ErrMissingHost
	}

	return u, nil
}

// bracketHost re-adds the brackets url.Hostname strips from IPv6 literals.
func bracketHost(host string) string {
	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}
	return host
}
