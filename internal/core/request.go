package core

import (
	"net/http"
	"strings"
)

// RequestContext 分類與紀錄所需的請求資訊，於 handler 建立後明確傳遞
type RequestContext struct {
	Headers       http.Header
	Method        string
	Path          string // 原始 request URI（含 query）
	Scheme        string
	Host          string
	PeerAddr      string // RemoteAddr 的 host 部分
	TransportAddr string // 原始 RemoteAddr
}

func (r RequestContext) Header(key string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(key)
}

func (r RequestContext) UserAgent() string {
	return r.Header("User-Agent")
}

// Referrer 先取標準拼法 Referer，沒有再取 Referrer
func (r RequestContext) Referrer() string {
	if v := r.Header("Referer"); v != "" {
		return v
	}
	return r.Header("Referrer")
}

// URL 以 scheme + host + 原始路徑重組
func (r RequestContext) URL() string {
	return r.Scheme + "://" + r.Host + r.Path
}

// ClientIP 依序嘗試代理標頭 → 連線位址 → "unknown"；
// trustProxy 為 false 時僅使用連線位址
func (r RequestContext) ClientIP(trustProxy bool) string {
	if trustProxy {
		if xff := r.Header("X-Forwarded-For"); xff != "" {
			if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
				return first
			}
		}
		if v := r.Header("X-Real-IP"); v != "" {
			return v
		}
		if v := r.Header("X-Client-IP"); v != "" {
			return v
		}
	}
	if r.PeerAddr != "" {
		return r.PeerAddr
	}
	if r.TransportAddr != "" {
		return r.TransportAddr
	}
	return UnknownClientIP
}
