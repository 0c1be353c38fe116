package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"botwatch/internal/core"
	client "botwatch/internal/database/client"
	"botwatch/internal/dto"
	"botwatch/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// DetectionLogRepository 以單一 list 保存紀錄；RPUSH 為原子操作，順序即到達順序
type DetectionLogRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
	key    string
}

func NewDetectionLogRepository(trace *telemetry.Trace, redisClient *client.RedisClient, key string) *DetectionLogRepository {
	return NewDetectionLogRepositoryWithClient(trace, redisClient.Client(), key)
}

func NewDetectionLogRepositoryWithClient(trace *telemetry.Trace, rdb *redis.Client, key string) *DetectionLogRepository {
	return &DetectionLogRepository{trace: trace, client: rdb, key: key}
}

func (repository *DetectionLogRepository) Append(
	contextValue context.Context,
	record dto.DetectionRecord,
) (returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() { endSpan(returnedError) }()
	repository.trace.ApplyTraceAttributes(span, core.TraceDetectionMeta{
		ClientIP:  record.IP,
		UserAgent: record.UserAgent,
		BotType:   string(record.BotType),
		Detected:  record.Detected,
		Store:     string(core.StoreRedis),
	})

	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal detection log: %w", err)
	}
	if err := repository.client.RPush(contextValue, repository.key, payload).Err(); err != nil {
		return fmt.Errorf("rpush detection log: %w", err)
	}
	return nil
}

// ReadAll key 不存在時 LRANGE 回傳空陣列
func (repository *DetectionLogRepository) ReadAll(contextValue context.Context) (rows []dto.DetectionRow, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		repository.trace.ApplyTraceAttributes(span, core.TraceDetectionReadMeta{
			Store:   string(core.StoreRedis),
			Records: len(rows),
		})
		endSpan(returnedError)
	}()

	items, err := repository.client.LRange(contextValue, repository.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange detection logs: %w", err)
	}
	return decodeRows(items)
}

func (repository *DetectionLogRepository) Count(contextValue context.Context) (int, error) {
	n, err := repository.client.LLen(contextValue, repository.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen detection logs: %w", err)
	}
	return int(n), nil
}

func (repository *DetectionLogRepository) Describe() string {
	return string(core.StoreRedis) + ":" + repository.key
}

// Close 連線由 RedisClient 的 cleanup 關閉
func (repository *DetectionLogRepository) Close() error {
	return nil
}

func decodeRows(items []string) ([]dto.DetectionRow, error) {
	rows := make([]dto.DetectionRow, 0, len(items))
	for i, item := range items {
		var record dto.DetectionRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			return nil, fmt.Errorf("decode detection log %d: %w", i, err)
		}
		rows = append(rows, record.Row())
	}
	return rows, nil
}
