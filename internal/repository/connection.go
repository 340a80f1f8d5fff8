package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

const (
	defaultAppName        = "cart-ecommerce"
	defaultMaxPoolSize    = 100
	defaultConnectTimeout = 10 * time.Second
	serverSelectTimeout   = 5 * time.Second
)

// MongoConfig describes the connection. Zero values fall back to the defaults above.
type MongoConfig struct {
	URI            string
	Database       string
	AppName        string
	MaxPoolSize    uint64
	ConnectTimeout time.Duration
}

// clientOptions keeps a tenth of the pool warm. Cart writes are acknowledged
// by a majority so a failover does not roll back a version.
func (c MongoConfig) clientOptions() *options.ClientOptions {
	appName := c.AppName
	if appName == "" {
		appName = defaultAppName
	}
	maxPool := c.MaxPoolSize
	if maxPool == 0 {
		maxPool = defaultMaxPoolSize
	}
	connectTimeout := c.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}

	return options.Client().
		ApplyURI(c.URI).
		SetAppName(appName).
		SetConnectTimeout(connectTimeout).
		SetServerSelectionTimeout(serverSelectTimeout).
		SetMaxPoolSize(maxPool).
		SetMinPoolSize(maxPool / 10).
		SetWriteConcern(writeconcern.Majority())
}

func ConnectMongoDB(ctx context.Context, cfg MongoConfig) (*mongo.Database, error) {
	if cfg.Database == "" {
		return nil, fmt.Errorf("mongo database name is required")
	}

	client, err := mongo.Connect(ctx, cfg.clientOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping MongoDB %s: %w", cfg.Database, err)
	}

	return client.Database(cfg.Database), nil
}
