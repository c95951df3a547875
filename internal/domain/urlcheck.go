package domain

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// blockedHosts are matched by substring containment against the hostname.
// This also blocks hostnames that merely embed an entry (e.g. "notlocalhost.com"),
// which is intentionally strict and kept for compatibility with existing callers.
var blockedHosts = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"::1",
	"169.254.169.254",
}

// privateRanges are checked lexically on IPv4 literals only. No DNS resolution
// happens here; the check gates the URL before any network call is issued.
var privateRanges = []netip.Prefix{
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
}

// CheckURL validates a caller-supplied URL against the SSRF policy.
// It is a pure function and must be called before any fetch is issued.
//
// Returns ErrMalformedURL for unparseable input and ErrUnsafeURL for
// non-HTTP schemes, denylisted hostnames, and private IPv4 literals.
func CheckURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fmt.Errorf("%w: empty url", ErrMalformedURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q is not allowed", ErrUnsafeURL, u.Scheme)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return fmt.Errorf("%w: missing host", ErrMalformedURL)
	}

	for _, blocked := range blockedHosts {
		if strings.Contains(host, blocked) {
			return fmt.Errorf("%w: host %q matches blocked entry %q", ErrUnsafeURL, host, blocked)
		}
	}

	// Lexical private-range check on IP literals.
	if addr, err := netip.ParseAddr(host); err == nil {
		if addr.Is4() {
			for _, prefix := range privateRanges {
				if prefix.Contains(addr) {
					return fmt.Errorf("%w: host %q is in private range %s", ErrUnsafeURL, host, prefix)
				}
			}
		}
		if addr.IsLoopback() || addr.IsLinkLocalUnicast() {
			return fmt.Errorf("%w: host %q is loopback or link-local", ErrUnsafeURL, host)
		}
	}

	return nil
}
