package mongo

import (
	"context"
	"fmt"
	"time"

	"autodelete_bot/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultTimeout = 10 * time.Second

// Client 封装 MongoDB 客户端及其数据库名
type Client struct {
	*mongo.Client
	dbName string
}

// Config 定义 MongoDB 连接配置
type Config struct {
	URI      string        // MongoDB 连接 URI，例如 "mongodb://localhost:27017"
	Database string        // 数据库名称
	Timeout  time.Duration // 连接超时时间
}

// Validate 校验连接配置
func (c Config) Validate() error {
	if c.URI == "" {
		return fmt.Errorf("MongoDB URI cannot be empty")
	}
	if c.Database == "" {
		return fmt.Errorf("database name cannot be empty")
	}
	return nil
}

// NewClient 连接 MongoDB 并验证可用性
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Client{Client: client, dbName: cfg.Database}, nil
}

// InitFromConfig 按应用配置连接 MongoDB；未配置 URI 时返回 nil（不持久化）
func InitFromConfig(ctx context.Context, cfg *config.Config) (*Client, error) {
	if cfg.MongoURI == "" {
		return nil, nil
	}
	return NewClient(ctx, Config{URI: cfg.MongoURI, Database: cfg.MongoDBName})
}

// Close 关闭 MongoDB 客户端连接
func (c *Client) Close(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Disconnect(ctx)
}

// Database 返回配置的数据库句柄
func (c *Client) Database() *mongo.Database {
	if c == nil || c.Client == nil {
		return nil
	}
	return c.Client.Database(c.dbName)
}

// Ping 验证与 MongoDB 的连接
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.Client == nil {
		return fmt.Errorf("MongoDB client is not initialized")
	}
	return c.Client.Ping(ctx, readpref.Primary())
}
