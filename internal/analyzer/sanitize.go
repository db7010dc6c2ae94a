package analyzer

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// hostProfile maps hosts the way browsers do for lookup but tolerates
// underscores, which real-world hostnames carry.
var hostProfile = idna.New(idna.MapForLookup(), idna.StrictDomainName(false))

// SanitizeURL reduces raw to scheme://host/path. Query, fragment and userinfo are
// dropped, the host is lower-cased and IDNA-encoded, and an empty path becomes "/".
// Only absolute http and https URLs are accepted.
func SanitizeURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: scheme %q is not http or https", ErrInvalidURL, u.Scheme)
	}
	hostname := u.Hostname()
	if hostname == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidURL)
	}

	host := strings.ToLower(hostname)
	if net.ParseIP(host) == nil {
		host, err = hostProfile.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("%w: host %q: %v", ErrInvalidURL, hostname, err)
		}
	}
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return scheme + "://" + host + path, nil
}
