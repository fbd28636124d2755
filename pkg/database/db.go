// Package database owns the MongoDB client used by every repository.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tempohq/tempo/config"
)

var (
	// Client is the shared MongoDB client, set by Connect.
	Client *mongo.Client
	// DB is the application database handle, set by Connect.
	DB *mongo.Database
)

// Connect dials MongoDB using DB_URL/DB_NAME and verifies the connection
// with a ping. Must be called once at boot before any repository is used.
func Connect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Client().ApplyURI(config.DatabaseURL()).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return fmt.Errorf("database: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.DatabaseName())
	return nil
}

// Collection returns a handle to the named collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}

// Disconnect closes the client. Safe to call when Connect never succeeded.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}
