package database

import (
	"context"
	"fmt"

	"botwatch/config"
	"botwatch/internal/core"
	client "botwatch/internal/database/client"
	csvRepo "botwatch/internal/database/csv/repository"
	mongoRepo "botwatch/internal/database/mongodb/repository"
	redisRepo "botwatch/internal/database/redis/repository"
	"botwatch/internal/dto"
	"botwatch/internal/telemetry"

	"go.uber.org/zap"
)

// DetectionStore 偵測紀錄的持久化後端，只追加
type DetectionStore interface {
	Append(ctx context.Context, record dto.DetectionRecord) error
	ReadAll(ctx context.Context) ([]dto.DetectionRow, error)
	Count(ctx context.Context) (int, error)
	Describe() string
	Close() error
}

var (
	_ DetectionStore = (*csvRepo.DetectionLogRepository)(nil)
	_ DetectionStore = (*mongoRepo.DetectionLogRepository)(nil)
	_ DetectionStore = (*redisRepo.DetectionLogRepository)(nil)
)

// NewDetectionStore 依 DETECTION.STORE 建立後端；只有被選中的後端會建立連線
func NewDetectionStore(
	logger *zap.Logger,
	config *config.Configuration,
	trace *telemetry.Trace,
) (DetectionStore, func(), error) {
	var (
		store   DetectionStore
		release = func() {}
	)

	switch core.DetectionStoreKind(config.Detection.Store) {
	case core.StoreCSV, "":
		repo, err := csvRepo.NewDetectionLogRepository(
			trace,
			config.Detection.CSVPath,
			core.CSVReaderMode(config.Detection.CSVReader),
		)
		if err != nil {
			logger.Error("failed to open csv store", zap.String("path", config.Detection.CSVPath), zap.Error(err))
			return nil, nil, err
		}
		store = repo
	case core.StoreMongo:
		mongoClient, cleanup, err := client.NewMongoClient(logger, config)
		if err != nil {
			return nil, nil, err
		}
		store, release = mongoRepo.NewDetectionLogRepository(trace, mongoClient), cleanup
	case core.StoreRedis:
		redisClient, cleanup, err := client.NewRedisClient(logger, config)
		if err != nil {
			return nil, nil, err
		}
		store, release = redisRepo.NewDetectionLogRepository(trace, redisClient, config.Detection.RedisKey), cleanup
	default:
		return nil, nil, fmt.Errorf("unknown detection store %q", config.Detection.Store)
	}

	logger.Info("detection store ready", zap.String("store", store.Describe()))
	cleanup := func() {
		logger.Info("closing the detection store", zap.String("store", store.Describe()))
		if err := store.Close(); err != nil {
			logger.Error("failed to close detection store", zap.Error(err))
		}
		release()
	}
	return store, cleanup, nil
}
