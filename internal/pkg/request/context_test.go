package request

import (
	"crypto/tls"
	"net/http/httptest"
	"testing"

	"botwatch/internal/core"
)

func TestNewRequestContext(t *testing.T) {
	req := httptest.NewRequest("GET", "http://example.com/?q=1", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	req.Header.Set("User-Agent", "GPTBot/1.0")
	req.Header.Set("Referer", "https://ref.example/")

	rc := NewRequestContext(req, true)
	if rc.Method != "GET" || rc.Host != "example.com" || rc.Path != "/?q=1" {
		t.Fatalf("unexpected context: %+v", rc)
	}
	if rc.URL() != "http://example.com/?q=1" {
		t.Errorf("URL() = %q", rc.URL())
	}
	if rc.PeerAddr != "10.0.0.7" || rc.TransportAddr != "10.0.0.7:51234" {
		t.Errorf("peer = %q transport = %q", rc.PeerAddr, rc.TransportAddr)
	}
	if rc.UserAgent() != "GPTBot/1.0" || rc.Referrer() != "https://ref.example/" {
		t.Errorf("UserAgent() = %q Referrer() = %q", rc.UserAgent(), rc.Referrer())
	}
}

func TestNewRequestContextScheme(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.TLS = &tls.ConnectionState{}
	if got := NewRequestContext(req, false).Scheme; got != "https" {
		t.Errorf("TLS scheme = %q, want https", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("X-Forwarded-Proto", "https, http")
	if got := NewRequestContext(req, true).Scheme; got != "https" {
		t.Errorf("forwarded scheme = %q, want https", got)
	}
	if got := NewRequestContext(req, false).Scheme; got != "http" {
		t.Errorf("direct scheme = %q, want http", got)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		trustProxy bool
		want       string
	}{
		{"forwarded first entry", map[string]string{"X-Forwarded-For": " 203.0.113.9 , 10.0.0.1"}, "10.0.0.7:1", true, "203.0.113.9"},
		{"empty forwarded falls through", map[string]string{"X-Forwarded-For": " ,10.0.0.1", "X-Real-IP": "198.51.100.2"}, "10.0.0.7:1", true, "198.51.100.2"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.2", "X-Client-IP": "192.0.2.3"}, "10.0.0.7:1", true, "198.51.100.2"},
		{"client ip", map[string]string{"X-Client-IP": "192.0.2.3"}, "10.0.0.7:1", true, "192.0.2.3"},
		{"peer address", nil, "10.0.0.7:1", true, "10.0.0.7"},
		{"transport address", nil, "pipe", true, "pipe"},
		{"unknown", nil, "", true, core.UnknownClientIP},
		{"direct mode ignores headers", map[string]string{"X-Forwarded-For": "203.0.113.9"}, "10.0.0.7:1", false, "10.0.0.7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := NewRequestContext(req, tt.trustProxy).ClientIP(tt.trustProxy); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
