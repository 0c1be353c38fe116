package client

import (
	"context"
	"fmt"
	"time"

	"botwatch/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisPingTimeout = 5 * time.Second

// RedisClient 偵測紀錄 redis 後端使用的連線
type RedisClient struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisClient(logger *zap.Logger, config *config.Configuration) (*RedisClient, func(), error) {
	opts := redisOptions(config)
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		logger.Error("failed to connect to Redis", zap.String("addr", opts.Addr), zap.Error(err))
		return nil, nil, fmt.Errorf("redis ping %s: %w", opts.Addr, err)
	}
	logger.Info("Connected to Redis", zap.String("addr", opts.Addr), zap.Int("db", opts.DB))

	redisClient := &RedisClient{client: rdb, logger: logger}
	cleanup := func() {
		logger.Info("closing the Redis resources")
		if err := redisClient.Close(); err != nil {
			logger.Error("failed to close Redis client", zap.Error(err))
		}
	}
	return redisClient, cleanup, nil
}

func redisOptions(config *config.Configuration) *redis.Options {
	return &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Redis.Host, config.Redis.Port),
		Password:     config.Redis.Password,
		DB:           config.Redis.DB,
		ClientName:   config.App.Name,
		DialTimeout:  redisPingTimeout,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

func (redisClient *RedisClient) Close() error {
	return redisClient.client.Close()
}

func (redisClient *RedisClient) Client() *redis.Client {
	return redisClient.client
}
