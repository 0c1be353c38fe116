package repository

import (
	"context"
	"encoding/json"
	"time"

	"botwatch/config"
	"botwatch/internal/core"
	"botwatch/internal/database/client"
	"botwatch/internal/database/fluentd/model"
)

const loggedAtLayout = "2006-01-02 15:04:05.999999 UTC"

// LogRepository 統一負責發送 Request/Response/Detection Log 到 Fluentd
type LogRepository struct {
	fluentdClient client.Client
	version       string
	now           func() time.Time
}

func NewLogRepository(config *config.Configuration, client client.Client) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, version: version, now: time.Now}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = repository.loggedAt()
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	return repository.post(ctx, core.FluentdRequest, req)
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = repository.loggedAt()
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	return repository.post(ctx, core.FluentdResponse, resp)
}

func (repository *LogRepository) LogDetection(ctx context.Context, detection model.DetectionLog) error {
	if detection.LoggedAt == "" {
		detection.LoggedAt = repository.loggedAt()
	}
	if detection.Version == "" {
		detection.Version = repository.version
	}
	return repository.post(ctx, core.FluentdDetection, detection)
}

func (repository *LogRepository) loggedAt() string {
	return repository.now().UTC().Format(loggedAtLayout)
}

// fluent 以 msgpack 編碼 map 最穩定，先經 JSON 轉為 map[string]any
func (repository *LogRepository) post(ctx context.Context, tag core.FluentdSubTag, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var fluentdMessage map[string]any
	if err := json.Unmarshal(b, &fluentdMessage); err != nil {
		return err
	}
	return repository.fluentdClient.Post(ctx, string(tag), fluentdMessage)
}
