package mongo

import (
	"context"
	"testing"

	"autodelete_bot/internal/config"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{URI: "mongodb://localhost:27017", Database: "db"}},
		{name: "missing uri", cfg: Config{Database: "db"}, wantErr: true},
		{name: "missing database", cfg: Config{URI: "mongodb://localhost:27017"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestInitFromConfigWithoutURI(t *testing.T) {
	client, err := InitFromConfig(context.Background(), &config.Config{MongoDBName: "db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client != nil {
		t.Fatalf("expected nil client when MONGO_URI is empty")
	}
}

func TestNilClientHelpers(t *testing.T) {
	var c *Client
	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
	if c.Database() != nil {
		t.Fatalf("expected nil database")
	}
	if err := c.Ping(context.Background()); err == nil {
		t.Fatalf("expected ping error on nil client")
	}
}
