package client

import (
	"testing"

	"botwatch/config"

	"go.uber.org/zap"
)

func TestRedisOptions(t *testing.T) {
	conf := config.Default()
	conf.Redis.Host = "cache"
	conf.Redis.Port = 6380
	conf.Redis.DB = 2

	opts := redisOptions(conf)
	if opts.Addr != "cache:6380" || opts.DB != 2 || opts.ClientName != "botwatch" {
		t.Errorf("options = %+v", opts)
	}
}

func TestNewRedisClientUnreachable(t *testing.T) {
	conf := config.Default()
	conf.Redis.Port = 1

	c, cleanup, err := NewRedisClient(zap.NewNop(), conf)
	if err == nil {
		cleanup()
		t.Fatalf("NewRedisClient() = %v, want error", c)
	}
}
