// Package fetcher performs the outbound GET requests of the scraping pipeline.
package fetcher

import (
	"context"
	"fmt"
	"net/netip"
	"net/url"
)

// checkTarget parses rawURL and rejects anything but an absolute http(s) URL.
// With DenyPrivateIPs set, a host that is or resolves to an internal address
// is rejected too.
func (f *PageFetcher) checkTarget(ctx context.Context, rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: scheme %q", ErrInvalidURL, u.Scheme)
	}
	host := u.Hostname()
	if host == "" {
		return nil, fmt.Errorf("%w: no host", ErrInvalidURL)
	}
	if !f.config.DenyPrivateIPs {
		return u, nil
	}

	if addr, err := netip.ParseAddr(host); err == nil {
		if blockedAddr(addr) {
			return nil, fmt.Errorf("%w: %s", ErrPrivateIP, host)
		}
		return u, nil
	}

	addrs, err := f.resolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", ErrInvalidURL, host, err)
	}
	for _, addr := range addrs {
		if blockedAddr(addr) {
			return nil, fmt.Errorf("%w: %s resolves to %s", ErrPrivateIP, host, addr)
		}
	}
	return u, nil
}

// blockedAddr covers loopback, RFC 1918 and RFC 4193 ranges, link-local and
// the unspecified address, including IPv4-mapped forms.
func blockedAddr(addr netip.Addr) bool {
	addr = addr.Unmap()
	return addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsUnspecified()
}
