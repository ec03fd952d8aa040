package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autodelete_bot/internal/telegram/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSettingsRepository 运行时配置数据访问层（MongoDB 实现）
type MongoSettingsRepository struct {
	collection *mongo.Collection
}

// NewMongoSettingsRepository 创建配置 Repository
func NewMongoSettingsRepository(db *mongo.Database) SettingsRepository {
	return &MongoSettingsRepository{
		collection: db.Collection("bot_settings"),
	}
}

// Get 获取指定键的配置
func (r *MongoSettingsRepository) Get(ctx context.Context, key string) (*models.BotSettings, error) {
	var settings models.BotSettings
	err := r.collection.FindOne(ctx, bson.M{"key": key}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

// SaveDelay 保存删除延迟（Upsert）
func (r *MongoSettingsRepository) SaveDelay(ctx context.Context, key string, delaySeconds int, updatedBy int64) error {
	update := bson.M{
		"$set": bson.M{
			"delay_seconds": delaySeconds,
			"updated_by":    updatedBy,
			"updated_at":    time.Now(),
		},
	}

	opts := options.Update().SetUpsert(true)
	if _, err := r.collection.UpdateOne(ctx, bson.M{"key": key}, update, opts); err != nil {
		return fmt.Errorf("failed to save delay: %w", err)
	}
	return nil
}

// EnsureIndexes 确保索引存在
func (r *MongoSettingsRepository) EnsureIndexes(ctx context.Context) error {
	index := mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := r.collection.Indexes().CreateOne(ctx, index); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}
