package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"botwatch/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const mongoConnectTimeout = 10 * time.Second

// MongoClient 偵測紀錄 mongo 後端使用的連線
type MongoClient struct {
	client   *mongo.Client
	database string
	logger   *zap.Logger
}

func NewMongoClient(logger *zap.Logger, config *config.Configuration) (*MongoClient, func(), error) {
	c, err := mongo.Connect(context.Background(), mongoOptions(config))
	if err != nil {
		logger.Error("failed to connect to MongoDB", zap.Error(err))
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	if err := c.Ping(ctx, readpref.Primary()); err != nil {
		_ = c.Disconnect(context.Background())
		logger.Error("failed to ping MongoDB", zap.Error(err))
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}
	logger.Info("Connected to MongoDB", zap.String("database", config.MongoDB.Database))

	mongoClient := &MongoClient{client: c, database: config.MongoDB.Database, logger: logger}
	cleanup := func() {
		logger.Info("closing the MongoDB resources")
		if err := mongoClient.Close(); err != nil {
			logger.Error("failed to close MongoDB client", zap.Error(err))
		}
	}
	return mongoClient, cleanup, nil
}

func mongoOptions(config *config.Configuration) *options.ClientOptions {
	return options.Client().
		ApplyURI(buildMongoURI(config.MongoDB.URI, config.MongoDB.Options)).
		SetAppName(config.App.Name).
		SetConnectTimeout(mongoConnectTimeout).
		SetServerSelectionTimeout(mongoConnectTimeout)
}

// buildMongoURI 將額外的 query 參數接到 URI 後面
func buildMongoURI(baseURI, optionStr string) string {
	optionStr = strings.TrimLeft(optionStr, "?&")
	if optionStr == "" {
		return baseURI
	}
	if strings.Contains(baseURI, "?") {
		return baseURI + "&" + optionStr
	}
	// driver 要求 query 前必須有 "/"
	if i := strings.Index(baseURI, "://"); i >= 0 && !strings.Contains(baseURI[i+3:], "/") {
		baseURI += "/"
	}
	return baseURI + "?" + optionStr
}

func (m *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()
	return m.client.Disconnect(ctx)
}

func (m *MongoClient) Client() *mongo.Client {
	return m.client
}

// Database 回傳設定中的資料庫
func (m *MongoClient) Database() *mongo.Database {
	return m.client.Database(m.database)
}
