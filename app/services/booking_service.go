package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/pkg/apperr"
	"github.com/tempohq/tempo/pkg/listquery"
	"github.com/tempohq/tempo/pkg/validate"
)

// BookingStore is what the booking service needs from persistence.
type BookingStore interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, q listquery.Query) ([]models.Booking, listquery.Pagination, error)
	Update(ctx context.Context, booking *models.Booking) error
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string, approverID primitive.ObjectID) (*models.Booking, error)
}

// ArtistInput is the solo-customer allow-list.
type ArtistInput struct {
	Name       string `json:"name" validate:"required,min=2,max=100"`
	Email      string `json:"email" validate:"required,email"`
	ContactNum string `json:"contact_num" validate:"required,min=7,max=20"`
}

// BandInput is the group-customer allow-list.
type BandInput struct {
	GroupName      string `json:"group_name" validate:"required,min=2,max=100"`
	LeadName       string `json:"lead_name" validate:"required,min=2,max=100"`
	LeadEmail      string `json:"lead_email" validate:"required,email"`
	LeadContactNum string `json:"lead_contact_num" validate:"required,min=7,max=20"`
}

// CreateBookingInput is the create allow-list. approved_by, payed, and
// completed are absent on purpose: only the approve action writes them.
type CreateBookingInput struct {
	CustomerType     string       `json:"customer_type" validate:"required,in=artist,band"`
	Artist           *ArtistInput `json:"artist"`
	Band             *BandInput   `json:"band"`
	GroupSize        int          `json:"group_size" validate:"required,between=1,8"`
	NumOfInstruments int          `json:"num_of_instruments" validate:"gte=0"`
	StartTime        time.Time    `json:"start_time" validate:"required"`
	Duration         int          `json:"duration" validate:"required,between=1,4"`
	Message          string       `json:"message" validate:"nullable,max=255"`
}

// UpdateBookingInput is the update allow-list, all fields optional.
type UpdateBookingInput struct {
	Artist           *ArtistInput `json:"artist"`
	Band             *BandInput   `json:"band"`
	GroupSize        *int         `json:"group_size" validate:"nullable,between=1,8"`
	NumOfInstruments *int         `json:"num_of_instruments" validate:"nullable,gte=0"`
	StartTime        *time.Time   `json:"start_time"`
	Duration         *int         `json:"duration" validate:"nullable,between=1,4"`
	Message          *string      `json:"message" validate:"nullable,max=255"`
}

// BookingService implements the booking rules on top of a BookingStore.
// The user store resolves approved_by references on reads.
type BookingService struct {
	bookings BookingStore
	users    UserStore
	now      func() time.Time
}

// NewBookingService wires the service to its stores.
func NewBookingService(bookings BookingStore, users UserStore) *BookingService {
	return &BookingService{bookings: bookings, users: users, now: time.Now}
}

// List returns a page of bookings per the parsed query.
func (s *BookingService) List(ctx context.Context, q listquery.Query) ([]models.Booking, listquery.Pagination, error) {
	bookings, page, err := s.bookings.List(ctx, q)
	if err != nil {
		return nil, page, err
	}
	for i := range bookings {
		s.attachApprover(ctx, &bookings[i])
	}
	return bookings, page, nil
}

// Get returns one booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.attachApprover(ctx, booking)
	return booking, nil
}

// Create validates the cross-field rules the tag validator cannot see
// (future start time, the sub-record matching customer_type) and inserts.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (*models.Booking, error) {
	if !in.StartTime.After(s.now()) {
		return nil, apperr.ValidationField("start_time", "The start time must be in the future.")
	}
	if err := checkCustomer(models.CustomerType(in.CustomerType), in.Artist, in.Band); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		CustomerType:     models.CustomerType(in.CustomerType),
		GroupSize:        in.GroupSize,
		NumOfInstruments: in.NumOfInstruments,
		StartTime:        in.StartTime,
		Duration:         in.Duration,
		Message:          in.Message,
	}
	if in.Artist != nil {
		booking.Artist = artistFromInput(in.Artist)
	}
	if in.Band != nil {
		booking.Band = bandFromInput(in.Band)
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}

// Update fetches, mutates only the allow-listed fields, and saves. The
// approval fields cannot be touched here regardless of the request body.
func (s *BookingService) Update(ctx context.Context, id string, in UpdateBookingInput) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Artist != nil {
		if errs := validate.Struct(in.Artist); validate.HasErrors(errs) {
			return nil, apperr.Validation(prefixKeys("artist.", errs))
		}
		booking.Artist = artistFromInput(in.Artist)
	}
	if in.Band != nil {
		if errs := validate.Struct(in.Band); validate.HasErrors(errs) {
			return nil, apperr.Validation(prefixKeys("band.", errs))
		}
		booking.Band = bandFromInput(in.Band)
	}
	if in.GroupSize != nil {
		booking.GroupSize = *in.GroupSize
	}
	if in.NumOfInstruments != nil {
		booking.NumOfInstruments = *in.NumOfInstruments
	}
	if in.StartTime != nil {
		if !in.StartTime.After(s.now()) {
			return nil, apperr.ValidationField("start_time", "The start time must be in the future.")
		}
		booking.StartTime = *in.StartTime
	}
	if in.Duration != nil {
		booking.Duration = *in.Duration
	}
	if in.Message != nil {
		booking.Message = *in.Message
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		return nil, err
	}
	s.attachApprover(ctx, booking)
	return booking, nil
}

// Delete removes the booking permanently.
func (s *BookingService) Delete(ctx context.Context, id string) error {
	return s.bookings.Delete(ctx, id)
}

// Approve stamps the acting user as approver and marks the booking payed
// and completed.
func (s *BookingService) Approve(ctx context.Context, id string, approver *models.User) (*models.Booking, error) {
	booking, err := s.bookings.Approve(ctx, id, approver.ID)
	if err != nil {
		return nil, err
	}
	booking.Approver = approver
	return booking, nil
}

// attachApprover resolves the approved_by reference into booking.Approver.
// If the approver account is gone (soft-deleted), only the raw id remains.
func (s *BookingService) attachApprover(ctx context.Context, booking *models.Booking) {
	if booking.ApprovedBy == nil {
		return
	}
	if user, err := s.users.FindByID(ctx, booking.ApprovedBy.Hex()); err == nil {
		booking.Approver = user
	}
}

// checkCustomer enforces that exactly the sub-record matching customer_type
// is present and valid.
func checkCustomer(ct models.CustomerType, artist *ArtistInput, band *BandInput) error {
	switch ct {
	case models.CustomerArtist:
		if artist == nil {
			return apperr.ValidationField("artist", "The artist details are required for an artist booking.")
		}
		if errs := validate.Struct(artist); validate.HasErrors(errs) {
			return apperr.Validation(prefixKeys("artist.", errs))
		}
	case models.CustomerBand:
		if band == nil {
			return apperr.ValidationField("band", "The band details are required for a band booking.")
		}
		if errs := validate.Struct(band); validate.HasErrors(errs) {
			return apperr.Validation(prefixKeys("band.", errs))
		}
	}
	return nil
}

func artistFromInput(in *ArtistInput) *models.Artist {
	return &models.Artist{Name: in.Name, Email: in.Email, ContactNum: in.ContactNum}
}

func bandFromInput(in *BandInput) *models.Band {
	return &models.Band{
		GroupName:      in.GroupName,
		LeadName:       in.LeadName,
		LeadEmail:      in.LeadEmail,
		LeadContactNum: in.LeadContactNum,
	}
}

func prefixKeys(prefix string, errs map[string]string) map[string]string {
	out := make(map[string]string, len(errs))
	for k, v := range errs {
		out[prefix+k] = v
	}
	return out
}
