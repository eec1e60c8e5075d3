package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"nyc-subway-trivia/internal/config"
)

// Connect opens a client for cfg.URI and pings the primary, both bounded
// by cfg.Timeout. The driver connects lazily, so the ping is what surfaces
// an unreachable server before any write is attempted.
func Connect(ctx context.Context, cfg *config.MongoConfig, appName string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	opts := options.Client().ApplyURI(cfg.URI)
	if appName != "" {
		opts.SetAppName(appName)
	}
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return client, nil
}
