package repository

import (
	"context"
	"fmt"

	"botwatch/internal/core"
	client "botwatch/internal/database/client"
	"botwatch/internal/dto"
	"botwatch/internal/telemetry"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DetectionLogRepository 每筆紀錄一份文件，_id 由 driver 產生（ObjectID 遞增即寫入順序）
type DetectionLogRepository struct {
	trace      *telemetry.Trace
	collection *mongo.Collection
}

func NewDetectionLogRepository(trace *telemetry.Trace, mongoClient *client.MongoClient) *DetectionLogRepository {
	return NewDetectionLogRepositoryWithCollection(
		trace,
		mongoClient.Database().Collection(string(core.MongoCollectionDetectionLogs)),
	)
}

func NewDetectionLogRepositoryWithCollection(trace *telemetry.Trace, collection *mongo.Collection) *DetectionLogRepository {
	return &DetectionLogRepository{trace: trace, collection: collection}
}

// Append：單文件插入
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
		Store:     string(core.StoreMongo),
	})

	if _, err := repository.collection.InsertOne(contextValue, record); err != nil {
		return fmt.Errorf("insert detection log: %w", err)
	}
	return nil
}

// ReadAll：依 _id 由舊到新
func (repository *DetectionLogRepository) ReadAll(contextValue context.Context) (rows []dto.DetectionRow, returnedError error) {
	contextValue, span, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		repository.trace.ApplyTraceAttributes(span, core.TraceDetectionReadMeta{
			Store:   string(core.StoreMongo),
			Records: len(rows),
		})
		endSpan(returnedError)
	}()

	findOptions := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := repository.collection.Find(contextValue, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find detection logs: %w", err)
	}
	defer cursor.Close(contextValue)

	rows = []dto.DetectionRow{}
	for cursor.Next(contextValue) {
		var record dto.DetectionRecord
		if err := cursor.Decode(&record); err != nil {
			return nil, fmt.Errorf("decode detection log: %w", err)
		}
		rows = append(rows, record.Row())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate detection logs: %w", err)
	}
	return rows, nil
}

func (repository *DetectionLogRepository) Count(contextValue context.Context) (int, error) {
	n, err := repository.collection.CountDocuments(contextValue, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("count detection logs: %w", err)
	}
	return int(n), nil
}

func (repository *DetectionLogRepository) Describe() string {
	return string(core.StoreMongo) + ":" + repository.collection.Database().Name() + "." + repository.collection.Name()
}

// Close 連線由 MongoClient 的 cleanup 關閉
func (repository *DetectionLogRepository) Close() error {
	return nil
}
