package services_test

import (
	"context"
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/listquery"
)

// fakeUserStore keeps users in a map, mimicking the repository's contract:
// soft-deleted users disappear from reads, duplicate emails fail.
type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Email == user.Email && u.Active {
			return apperr.ValidationField("email", "This email is already taken")
		}
	}
	user.ID = primitive.NewObjectID()
	user.Active = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID.Hex()] = &cp
	return nil
}

func (f *fakeUserStore) FindByID(_ context.Context, id string) (*models.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.BadID("Invalid record identifier")
	}
	u, ok := f.users[id]
	if !ok || !u.Active {
		return nil, apperr.NotFound("User not found")
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperr.NotFound("User not found")
}

func (f *fakeUserStore) List(_ context.Context, q listquery.Query) ([]models.User, listquery.Pagination, error) {
	var out []models.User
	for _, u := range f.users {
		if u.Active {
			out = append(out, *u)
		}
	}
	page := listquery.Paginate(int64(len(out)), q.Page, q.Limit)
	return out, page, nil
}

func (f *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := f.users[user.ID.Hex()]; !ok {
		return apperr.NotFound("User not found")
	}
	user.UpdatedAt = time.Now()
	cp := *user
	f.users[user.ID.Hex()] = &cp
	return nil
}

func (f *fakeUserStore) SoftDelete(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok || !u.Active {
		return apperr.NotFound("User not found")
	}
	u.Active = false
	return nil
}

// fakeBookingStore mirrors the booking repository: hard delete, atomic
// approve.
type fakeBookingStore struct {
	bookings map[string]*models.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeBookingStore) Create(_ context.Context, booking *models.Booking) error {
	booking.ID = primitive.NewObjectID()
	booking.BookedAt = time.Now()
	booking.LastUpdated = booking.BookedAt
	cp := *booking
	f.bookings[booking.ID.Hex()] = &cp
	return nil
}

func (f *fakeBookingStore) FindByID(_ context.Context, id string) (*models.Booking, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, apperr.BadID("Invalid record identifier")
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperr.NotFound("Booking not found")
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingStore) List(_ context.Context, q listquery.Query) ([]models.Booking, listquery.Pagination, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		out = append(out, *b)
	}
	page := listquery.Paginate(int64(len(out)), q.Page, q.Limit)
	return out, page, nil
}

func (f *fakeBookingStore) Update(_ context.Context, booking *models.Booking) error {
	if _, ok := f.bookings[booking.ID.Hex()]; !ok {
		return apperr.NotFound("Booking not found")
	}
	booking.LastUpdated = time.Now()
	cp := *booking
	f.bookings[booking.ID.Hex()] = &cp
	return nil
}

func (f *fakeBookingStore) Delete(_ context.Context, id string) error {
	if _, ok := f.bookings[id]; !ok {
		return apperr.NotFound("Booking not found")
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeBookingStore) Approve(_ context.Context, id string, approverID primitive.ObjectID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, apperr.NotFound("Booking not found")
	}
	b.ApprovedBy = &approverID
	b.Payed = true
	b.Completed = true
	b.LastUpdated = time.Now()
	cp := *b
	return &cp, nil
}

// mapStore is an in-memory verification-code store.
type mapStore struct {
	data map[string]string
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string]string)}
}

func (m *mapStore) Get(key string, dest interface{}) bool {
	val, ok := m.data[key]
	if !ok {
		return false
	}
	raw, _ := json.Marshal(val)
	return json.Unmarshal(raw, dest) == nil
}

func (m *mapStore) Set(key string, value interface{}, _ time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *mapStore) Del(keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}
