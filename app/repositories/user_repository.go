// Package repositories translates store-agnostic service calls into MongoDB
// operations. All driver errors are mapped to domain errors here; services
// and controllers never see a raw driver error.
package repositories

import (
	"context"
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

const usersCollection = "users"

// parseID converts a path id into an ObjectID, mapping garbage to a 400.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, apperr.BadID("Invalid record identifier")
	}
	return oid, nil
}

// activeFilter matches documents that are not soft-deleted. Documents
// written before the active flag existed have no field at all, so the
// filter must be $ne:false rather than equality with true.
func activeFilter() bson.M {
	return bson.M{"active": bson.M{"$ne": false}}
}

// UserRepository persists users in the users collection.
type UserRepository struct{}

// NewUserRepository returns a repository bound to the shared database.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// col resolves the collection lazily so the repository can be constructed
// before the database connects (route listing, tests).
func (r *UserRepository) col() *mongo.Collection {
	return database.Collection(usersCollection)
}

// Create inserts a new user. A unique-index collision on email comes back
// as a validation error on the email field.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("insert", time.Now())

	now := time.Now()
	user.Active = true
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.col().InsertOne(ctx, user)
	if err != nil {
		return apperr.FromMongo(err, "User not found", "email")
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

// FindByID returns the user with the given id, ignoring soft-deleted ones.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	defer metrics.ObserveDBQuery("find", time.Now())

	filter := activeFilter()
	filter["_id"] = oid

	var user models.User
	if err := r.col().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, apperr.FromMongo(err, "User not found", "email")
	}
	return &user, nil
}

// FindByEmail returns the active user with the given email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	filter := activeFilter()
	filter["email"] = email

	var user models.User
	if err := r.col().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, apperr.FromMongo(err, "User not found", "email")
	}
	return &user, nil
}

// List returns a page of active users. Clause order is fixed: filter →
// search → sort → count → clamp → skip/limit.
func (r *UserRepository) List(ctx context.Context, q listquery.Query) ([]models.User, listquery.Pagination, error) {
	defer metrics.ObserveDBQuery("find", time.Now())

	filter := activeFilter()
	for _, f := range q.Filters {
		filter[f.Field] = f.Value
	}
	if q.Search != "" {
		filter["name"] = caseInsensitiveRegex(q.Search)
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

	users := make([]models.User, 0, page.Limit)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, listquery.Pagination{}, apperr.Internal(err)
	}
	return users, page, nil
}

// Update saves mutated fields of an already-loaded user.
func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	defer metrics.ObserveDBQuery("update", time.Now())

	user.UpdatedAt = time.Now()

	res, err := r.col().ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return apperr.FromMongo(err, "User not found", "email")
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

// SoftDelete flips the active flag instead of removing the document, so
// historical bookings keep a resolvable approver.
func (r *UserRepository) SoftDelete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	defer metrics.ObserveDBQuery("update", time.Now())

	filter := activeFilter()
	filter["_id"] = oid

	res, err := r.col().UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"active":     false,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return apperr.Internal(err)
	}
	if res.MatchedCount == 0 {
		return apperr.NotFound("User not found")
	}
	return nil
}

func sortDirection(s *listquery.Sort) int {
	if s.Desc {
		return -1
	}
	return 1
}
