package cron

import (
	"context"

	"botwatch/config"

	"github.com/google/wire"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ProviderSet = wire.NewSet(NewCron, NewStatsJob)

type Cron struct {
	logger   *zap.Logger
	config   *config.Configuration
	server   *cron.Cron
	statsJob *StatsJob
}

// NewCron .
func NewCron(logger *zap.Logger, config *config.Configuration, statsJob *StatsJob) *Cron {
	server := cron.New(
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cronLogger{logger: logger})),
	)

	return &Cron{
		logger:   logger,
		config:   config,
		server:   server,
		statsJob: statsJob,
	}
}

func (c *Cron) Run() error {
	if spec := c.config.Detection.StatsCron; spec != "" {
		if _, err := c.server.AddJob(spec, c.statsJob); err != nil {
			return err
		}
		c.logger.Info("cron job registered", zap.String("job", "detection_stats"), zap.String("spec", spec))
	}

	c.server.Start()
	return nil
}

// Stop 等待執行中的 job 結束或 ctx 逾時
func (c *Cron) Stop(ctx context.Context) error {
	select {
	case <-c.server.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger 將 cron 內部訊息轉給 zap
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
