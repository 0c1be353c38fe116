package telemetry

import (
	"botwatch/config"
	"botwatch/internal/core"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric struct
type Metric struct {
	HttpRequestsTotal    *prometheus.CounterVec
	HttpRequestDuration  *prometheus.HistogramVec
	ResponseSuccessTotal *prometheus.CounterVec
	DetectionsTotal      *prometheus.CounterVec
	LogWriteFailTotal    *prometheus.CounterVec
	DetectionLogRecords  *prometheus.GaugeVec
	config               *config.Configuration
}

// NewMetric 建立所有指標；未啟用時回傳空 Metric（所有欄位為 nil）
func NewMetric(config *config.Configuration) *Metric {
	if config == nil || !config.Telemetry.Metric.Enabled {
		return &Metric{}
	}
	buckets := prometheus.DefBuckets
	if len(config.Telemetry.Metric.Buckets) > 0 {
		buckets = config.Telemetry.Metric.Buckets
	}
	return &Metric{
		config: config,
		HttpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricHttpRequestsTotal),
				Help: "Total received HTTP requests",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		HttpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    config.App.Name + "_" + string(core.MetricHttpRequestDuration),
				Help:    "HTTP request duration (seconds)",
				Buckets: buckets,
			},
			labelNames(core.MetricLabelEndpoint),
		),
		ResponseSuccessTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricResponseSuccessTotal),
				Help: "Successful responses",
			},
			labelNames(core.MetricLabelEndpoint, core.MetricLabelStatus),
		),
		DetectionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricDetectionsTotal),
				Help: "Classified requests by bot type",
			},
			labelNames(core.MetricLabelBotType),
		),
		LogWriteFailTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: config.App.Name + "_" + string(core.MetricLogWriteFailTotal),
				Help: "Detection records that could not be appended",
			},
			labelNames(core.MetricLabelStore),
		),
		DetectionLogRecords: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: config.App.Name + "_" + string(core.MetricDetectionLogRecords),
				Help: "Records currently held by the detection store",
			},
			labelNames(core.MetricLabelStore),
		),
	}
}

func (m *Metric) ObserveDetection(botType core.BotType) {
	if m == nil || m.DetectionsTotal == nil {
		return
	}
	m.DetectionsTotal.WithLabelValues(string(botType)).Inc()
}

func (m *Metric) ObserveLogWriteFail(store string) {
	if m == nil || m.LogWriteFailTotal == nil {
		return
	}
	m.LogWriteFailTotal.WithLabelValues(store).Inc()
}

func (m *Metric) SetDetectionLogRecords(store string, n int) {
	if m == nil || m.DetectionLogRecords == nil {
		return
	}
	m.DetectionLogRecords.WithLabelValues(store).Set(float64(n))
}

// labelNames helper: LabelName slice 轉成 []string
func labelNames(labels ...core.MetricLabelName) []string {
	strs := make([]string, len(labels))
	for i, l := range labels {
		strs[i] = string(l)
	}
	return strs
}
