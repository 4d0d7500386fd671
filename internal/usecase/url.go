package usecase

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/vadimbarashkov/shortlink/internal/entity"
)

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// normalizeURL accepts absolute http(s) URLs with a host and returns them in
// canonical form: lower-case scheme and host, no default port, "/" for an empty
// path. Normalizing an already normalized URL returns it unchanged.
func normalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("%w: empty", entity.ErrInvalidURL)
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrInvalidURL, err)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	defaultPort, ok := defaultPorts[u.Scheme]
	if !ok {
		return "", fmt.Errorf("%w: scheme %q is not http or https", entity.ErrInvalidURL, u.Scheme)
	}
	if u.Opaque != "" {
		return "", fmt.Errorf("%w: not an absolute url", entity.ErrInvalidURL)
	}

	host := strings.ToLower(u.Hostname())
	if host == "" {
		return "", fmt.Errorf("%w: missing host", entity.ErrInvalidURL)
	}

	port := u.Port()
	switch {
	case port == "" || port == defaultPort:
		if strings.Contains(host, ":") {
			host = "[" + host + "]"
		}
		u.Host = host
	default:
		u.Host = net.JoinHostPort(host, port)
	}

	if u.Path == "" {
		u.Path = "/"
		u.RawPath = ""
	}

	return u.String(), nil
}
