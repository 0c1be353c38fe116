package cron

import (
	"context"
	"time"

	"botwatch/internal/service"

	"go.uber.org/zap"
)

// StatsJob 定期計算紀錄筆數並更新 gauge，結果同時回報給 readiness；失敗就等下一輪
type StatsJob struct {
	logger           *zap.Logger
	detectionService *service.DetectionService
	healthService    *service.HealthService
	timeout          time.Duration
}

func NewStatsJob(
	logger *zap.Logger,
	detectionService *service.DetectionService,
	healthService *service.HealthService,
) *StatsJob {
	return &StatsJob{
		logger:           logger,
		detectionService: detectionService,
		healthService:    healthService,
		timeout:          30 * time.Second,
	}
}

func (j *StatsJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.detectionService.Count(ctx)
	j.healthService.ReportStore(err)
	if err != nil {
		j.logger.Error("detection stats failed",
			zap.String("store", j.detectionService.StoreDescription()),
			zap.Error(err),
		)
		return
	}
	j.logger.Info("detection stats",
		zap.String("store", j.detectionService.StoreDescription()),
		zap.Int("records", n),
	)
}
