package seeders

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
	Register("bookings", SeedBookings)
}

// SeedUsers inserts a demo staff account unless one already exists.
func SeedUsers(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("users")

	count, err := col.CountDocuments(ctx, bson.M{"email": "staff@tempo.local"})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("changeme123")
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = col.InsertOne(ctx, models.User{
		Name:      "Studio Staff",
		Email:     "staff@tempo.local",
		Password:  hash,
		Verified:  true,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	return err
}

// SeedBookings inserts a pair of demo sessions when the collection is empty.
func SeedBookings(ctx context.Context, db *mongo.Database) error {
	col := db.Collection("bookings")

	count, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	docs := []interface{}{
		models.Booking{
			CustomerType: models.CustomerArtist,
			Artist: &models.Artist{
				Name:       "Nina Vale",
				Email:      "nina@example.com",
				ContactNum: "07700900001",
			},
			GroupSize:        1,
			NumOfInstruments: 2,
			StartTime:        now.Add(48 * time.Hour),
			Duration:         2,
			Message:          "Vocal tracking session",
			BookedAt:         now,
			LastUpdated:      now,
		},
		models.Booking{
			CustomerType: models.CustomerBand,
			Band: &models.Band{
				GroupName:      "The Paper Kites",
				LeadName:       "Sam Rowe",
				LeadEmail:      "sam@example.com",
				LeadContactNum: "07700900002",
			},
			GroupSize:        5,
			NumOfInstruments: 6,
			StartTime:        now.Add(72 * time.Hour),
			Duration:         4,
			BookedAt:         now,
			LastUpdated:      now,
		},
	}

	_, err = col.InsertMany(ctx, docs)
	return err
}
