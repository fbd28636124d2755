package repositories

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/database"
	"github.com/tempohq/tempo/pkg/listquery"
	"github.com/tempohq/tempo/pkg/metrics"
)

const bookingsCollection = "bookings"

// caseInsensitiveRegex builds a literal substring match; user input is
// quoted so regex metacharacters cannot change the query.
func caseInsensitiveRegex(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

// BookingRepository persists bookings in the bookings collection.
type BookingRepository struct{}

// NewBookingRepository returns a repository bound to the shared database.
func NewBookingRepository() *BookingRepository {
	return &BookingRepository{}
}

func (r *BookingRepository) col() *mongo.Collection {
	return database.Collection(bookingsCollection)
}

// Create inserts a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now()
	booking.BookedAt = now
	booking.LastUpdated = now

	res, err := r.col().InsertOne(ctx, booking)
	if err != nil {
		return apperr.FromMongo(err, "Booking not found", "booking")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		booking.ID = oid
	}
	return nil
}

// FindByID returns the booking with the given id.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveDBQuery("find", time.Now())

	var booking models.Booking
	if err := r.col().FindOne(ctx, bson.M{"_id": oid}).Decode(&booking); err != nil {
		return nil, apperr.FromMongo(err, "Booking not found", "booking")
	}
	return &booking, nil
}

// List returns a page of bookings. Search matches the artist name or the
// band group name, case-insensitively. Clause order is fixed: filter →
// search → sort → count → clamp → skip/limit.
func (r *BookingRepository) List(ctx context.Context, q listquery.Query) ([]models.Booking, listquery.Pagination, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	filter := bson.M{}
	for _, f := range q.Filters {
		filter[f.Field] = f.Value
	}
	if q.Search != "" {
		rx := caseInsensitiveRegex(q.Search)
		filter["$or"] = bson.A{
			bson.M{"artist.name": rx},
			bson.M{"band.group_name": rx},
		}
	}

	total, err := r.col().CountDocuments(ctx, filter)
	if err != nil {
		return nil, listquery.Pagination{}, apperr.Internal(err)
	}
	page := listquery.Paginate(total, q.Page, q.Limit)

	opts := options.Find().
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))
	if q.Sort != nil {
		opts.SetSort(bson.D{{Key: q.Sort.Field, Value: sortDirection(q.Sort)}})
	}

	cursor, err := r.col().Find(ctx, filter, opts)
	if err != nil {
		return nil, listquery.Pagination{}, apperr.Internal(err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0, page.Limit)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, listquery.Pagination{}, apperr.Internal(err)
	}
	return bookings, page, nil
}

// Update saves mutated fields of an already-loaded booking.
func (r *BookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	booking.LastUpdated = time.Now()

	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": booking.ID}, booking)
	if err != nil {
		return apperr.FromMongo(err, "Booking not found", "booking")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("Booking not found")
	}
	return nil
}

// Delete removes the booking permanently.
func (r *BookingRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	defer metrics.ObserveDBQuery("delete", time.Now())

	res, err := r.col().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("Booking not found")
	}
	return nil
}

// Approve stamps the acting user into approved_by and marks the booking
// payed and completed in one atomic document write.
func (r *BookingRepository) Approve(ctx context.Context, id string, approverID primitive.ObjectID) (*models.Booking, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveDBQuery("update", time.Now())

	update := bson.M{"$set": bson.M{
		"approved_by":  approverID,
		"payed":        true,
		"completed":    true,
		"last_updated": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking models.Booking
	err = r.col().FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&booking)
	if err != nil {
		return nil, apperr.FromMongo(err, "Booking not found", "booking")
	}
	return &booking, nil
}
