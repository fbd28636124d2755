// Package indexes declares the MongoDB indexes the application relies on.
// Run via `tempo db:index`; safe to re-run, CreateMany is idempotent for
// identical definitions.
package indexes

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tempohq/tempo/pkg/database"
)

// Ensure creates every index. The unique email index backs the
// duplicate-signup validation error, so the app misbehaves without it.
func Ensure(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	users := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "active", Value: 1}},
		},
	}
	if _, err := database.Collection("users").Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("indexes: users: %w", err)
	}

	bookings := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "start_time", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "completed", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "artist.name", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "band.group_name", Value: 1}},
		},
	}
	if _, err := database.Collection("bookings").Indexes().CreateMany(ctx, bookings); err != nil {
		return fmt.Errorf("indexes: bookings: %w", err)
	}

	return nil
}
