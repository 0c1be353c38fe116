package core

const ContextTraceKey = "telemetry_trace_ctx"

// gin context keys
const (
	ContextRequestIDKey    = "request_id"
	ContextRequestStartKey = "requestDuration"
)

const HeaderRequestID = "X-Request-ID"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAuthMiddleware     TraceSpanName = "auth_middleware"
	SpanCompressMiddleware TraceSpanName = "compress_middleware"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal    MetricName = "requests_total"
	MetricHttpRequestDuration  MetricName = "request_duration_seconds"
	MetricDetectionsTotal      MetricName = "detections_total"
	MetricLogWriteFailTotal    MetricName = "detection_log_write_fail_total"
	MetricDetectionLogRecords  MetricName = "detection_log_records"
	MetricResponseSuccessTotal MetricName = "response_success_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelBotType  MetricLabelName = "bot_type"
	MetricLabelStore    MetricLabelName = "store"
)

type LoggerRequestMeta struct {
	Method    string            `trace:"request.method"`
	Path      string            `trace:"request.path"`
	FullPath  string            `trace:"request.full_path"`
	Query     string            `trace:"request.query"`
	Scheme    string            `trace:"http.scheme"`
	Host      string            `trace:"http.host"`
	UserAgent string            `trace:"http.user_agent"`
	Proto     string            `trace:"http.flavor"`
	ClientIP  string            `trace:"net.peer.ip"`
	Headers   map[string]string `trace:"http.request.header"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Message    string  `trace:"panic.message"`
	Stack      string  `trace:"panic.stack"`
	Status     int     `trace:"http.status_code"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceHttpServerMeta struct {
	// request side
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"http.request.path"`
	UrlScheme         string `trace:"http.request.url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}

// 分類與寫入紀錄
type TraceDetectionMeta struct {
	ClientIP   string `trace:"detection.client_ip"`
	UserAgent  string `trace:"detection.user_agent"`
	BotType    string `trace:"detection.bot_type"`
	Detected   bool   `trace:"detection.detected"`
	Store      string `trace:"detection.store"`
	TrustProxy bool   `trace:"detection.trust_proxy"`
}

type TraceDetectionReadMeta struct {
	Store   string `trace:"detection.store"`
	Records int    `trace:"detection.records"`
}

type TraceAuthMiddlewareMeta struct {
	ClientIP string `trace:"net.peer.ip,omitempty"`
	Subject  string `trace:"auth.subject,omitempty"`
	Status   string `trace:"auth.status,omitempty"`
}
