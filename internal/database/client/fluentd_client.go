package client

import (
	"context"
	"time"

	"botwatch/config"

	"github.com/fluent/fluent-logger-golang/fluent"
	"go.uber.org/zap"
)

// Client 讓 repository 可在測試中替換
type Client interface {
	Post(ctx context.Context, tag string, message any) error
	Close() error
}

// FluentdClient 以 fluent-logger-golang 實作 Client
type FluentdClient struct {
	client    *fluent.Fluent
	tagPrefix string
}

// NewFluentdClient 未啟用時回傳 NoopClient
func NewFluentdClient(logger *zap.Logger, config *config.Configuration) (Client, func(), error) {
	if !config.Fluentd.Enabled {
		return &NoopClient{}, func() {}, nil
	}
	prefix := config.App.Name
	if config.Fluentd.TagPrefix != "" {
		prefix = config.Fluentd.TagPrefix
	}
	var timeout time.Duration
	if config.Fluentd.Timeout > 0 {
		timeout = time.Duration(config.Fluentd.Timeout) * time.Millisecond
	}

	f, err := fluent.New(fluent.Config{
		FluentHost: config.Fluentd.Host,
		FluentPort: config.Fluentd.Port,
		Timeout:    timeout,
		TagPrefix:  prefix,
		// 送不出去時不阻塞請求
		Async: true,
	})
	if err != nil {
		logger.Error("failed to connect to Fluentd", zap.Error(err))
		return nil, nil, err
	}
	logger.Info("Connected to Fluentd", zap.String("host", config.Fluentd.Host), zap.Int("port", config.Fluentd.Port))

	fluentdClient := &FluentdClient{client: f, tagPrefix: prefix}
	cleanup := func() {
		logger.Info("closing the Fluentd resources")
		if err := fluentdClient.Close(); err != nil {
			logger.Error("failed to close Fluentd client", zap.Error(err))
		}
	}
	return fluentdClient, cleanup, nil
}

func (c *FluentdClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Tag 組合完整 tag，例如 suffix="detection_log" => "botwatch.detection_log"
func (c *FluentdClient) Tag(suffix string) string {
	if c.tagPrefix == "" {
		return suffix
	}
	return c.tagPrefix + "." + suffix
}

// Post 傳入的 tag 為 suffix，前綴由 fluent.Config.TagPrefix 補上
func (c *FluentdClient) Post(ctx context.Context, tag string, message any) error {
	return c.client.Post(tag, message)
}

// NoopClient 停用模式
type NoopClient struct{}

func (n *NoopClient) Post(ctx context.Context, tag string, message any) error { return nil }
func (n *NoopClient) Close() error                                            { return nil }
