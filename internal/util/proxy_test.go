package util

import (
	"net/http"
	"net/url"
	"testing"
)

func request(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatal(err)
	}
	return &http.Request{URL: u}
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:8080", "http://secure-proxy:8443", "")

	got, err := proxy(request(t, "https://example.com/page"))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Host != "secure-proxy:8443" {
		t.Errorf("https request proxy = %v, want secure-proxy:8443", got)
	}

	got, err = proxy(request(t, "http://example.com/page"))
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.Host != "proxy:8080" {
		t.Errorf("http request proxy = %v, want proxy:8080", got)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:8080", "", "internal.example.com, .gov")

	tests := []struct {
		name   string
		url    string
		bypass bool
	}{
		{"exact match", "https://internal.example.com/api", true},
		{"subdomain of listed host", "https://api.internal.example.com/v1", true},
		{"dot-prefixed suffix", "https://www.dol.gov/filing", true},
		{"unlisted host", "https://example.org/page", false},
		{"suffix inside a label does not match", "https://notinternal.example.org/", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := proxy(request(t, tt.url))
			if err != nil {
				t.Fatal(err)
			}
			if tt.bypass && got != nil {
				t.Errorf("expected direct connection for %s, got proxy %v", tt.url, got)
			}
			if !tt.bypass && got == nil {
				t.Errorf("expected proxy for %s, got direct connection", tt.url)
			}
		})
	}
}

func TestNewProxyFunc_WildcardDisablesProxy(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:8080", "", "*")

	got, err := proxy(request(t, "https://example.com/page"))
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Errorf("wildcard no_proxy must bypass everything, got %v", got)
	}
}
