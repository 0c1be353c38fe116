package model

type ResponseLog struct {
	// 對應 RequestLog.RequestID
	RequestID  string  `json:"request_id"`
	Path       string  `json:"path"`
	StatusCode int     `json:"status_code"`
	LatencyMs  float64 `json:"latency_ms"`
	Error      string  `json:"error,omitempty"`
	Version    string  `json:"version,omitempty"`
	ResponseTS string  `json:"response_ts"`
	LoggedAt   string  `json:"logged_at"`
}
