package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy function from configuration. With no
// proxy URLs configured it falls back to the process environment.
// Hosts matching noProxy (comma-separated names; a leading dot or a
// bare name matches subdomains, "*" matches everything) bypass the
// proxy entirely.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	skip := splitNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassProxy(req.URL.Hostname(), skip) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitNoProxy(noProxy string) []string {
	var hosts []string
	for _, h := range strings.Split(noProxy, ",") {
		h = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h)), ".")
		if h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

func bypassProxy(host string, skip []string) bool {
	host = strings.ToLower(host)
	for _, h := range skip {
		if h == "*" || host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
