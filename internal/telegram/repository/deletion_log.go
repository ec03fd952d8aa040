package repository

import (
	"context"
	"fmt"

	"autodelete_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoDeletionLogRepository 删除记录数据访问层（MongoDB 实现）
type MongoDeletionLogRepository struct {
	collection *mongo.Collection
}

// NewMongoDeletionLogRepository 创建删除记录 Repository
func NewMongoDeletionLogRepository(db *mongo.Database) DeletionLogRepository {
	return &MongoDeletionLogRepository{
		collection: db.Collection("deletion_logs"),
	}
}

// Create 写入一条删除记录
func (r *MongoDeletionLogRepository) Create(ctx context.Context, log *models.DeletionLog) error {
	if _, err := r.collection.InsertOne(ctx, log); err != nil {
		return fmt.Errorf("failed to create deletion log: %w", err)
	}
	return nil
}

// CountByStatus 按状态统计删除记录
func (r *MongoDeletionLogRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	pipeline := []bson.M{
		{
			"$group": bson.M{
				"_id":   "$status",
				"count": bson.M{"$sum": 1},
			},
		},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to count deletion logs: %w", err)
	}
	defer cursor.Close(ctx)

	result := make(map[string]int64)
	for cursor.Next(ctx) {
		var doc struct {
			ID    string `bson:"_id"`
			Count int64  `bson:"count"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode count result: %w", err)
		}
		result[doc.ID] = doc.Count
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return result, nil
}

// EnsureIndexes 确保索引存在
// ttlSeconds: 记录保留时长，过期后由 MongoDB 自动清理
func (r *MongoDeletionLogRepository) EnsureIndexes(ctx context.Context, ttlSeconds int32) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "attempted_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(ttlSeconds),
		},
		{
			Keys: bson.D{
				{Key: "chat_id", Value: 1},
				{Key: "attempted_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "status", Value: 1}},
		},
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
