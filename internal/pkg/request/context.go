package request

import (
	"net"
	"net/http"
	"strings"

	"botwatch/internal/core"
)

// NewRequestContext 由 *http.Request 擷取分類/紀錄所需欄位。
// trustProxy 時 X-Forwarded-Proto 會覆寫 scheme（等同 Express 的 trust proxy）。
func NewRequestContext(r *http.Request, trustProxy bool) core.RequestContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if trustProxy {
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			if first := strings.TrimSpace(strings.Split(proto, ",")[0]); first != "" {
				scheme = first
			}
		}
	}

	peer := ""
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		peer = host
	}

	return core.RequestContext{
		Headers:       r.Header.Clone(),
		Method:        r.Method,
		Path:          r.URL.RequestURI(),
		Scheme:        scheme,
		Host:          r.Host,
		PeerAddr:      peer,
		TransportAddr: r.RemoteAddr,
	}
}
