package core

type MongoCollection string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoCollectionDetectionLogs MongoCollection = "detection_logs"
)

// ─── Fluentd ───────────────────────────────────────────────────────────────────
const (
	FluentdRequest   FluentdSubTag = "request_log"
	FluentdResponse  FluentdSubTag = "response_log"
	FluentdDetection FluentdSubTag = "detection_log"
)
