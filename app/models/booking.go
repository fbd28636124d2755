package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CustomerType discriminates who booked the session.
type CustomerType string

const (
	CustomerArtist CustomerType = "artist"
	CustomerBand   CustomerType = "band"
)

// Artist is the solo-customer sub-document.
type Artist struct {
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	ContactNum string `bson:"contact_num" json:"contact_num"`
}

// Band is the group-customer sub-document.
type Band struct {
	GroupName      string `bson:"group_name" json:"group_name"`
	LeadName       string `bson:"lead_name" json:"lead_name"`
	LeadEmail      string `bson:"lead_email" json:"lead_email"`
	LeadContactNum string `bson:"lead_contact_num" json:"lead_contact_num"`
}

// Booking is one studio session reservation.
//
// Cost and end time are derived on read, never stored; approved_by, payed,
// and completed are only writable through the approve action.
type Booking struct {
	ID               primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CustomerType     CustomerType        `bson:"customer_type" json:"customer_type"`
	Artist           *Artist             `bson:"artist,omitempty" json:"artist,omitempty"`
	Band             *Band               `bson:"band,omitempty" json:"band,omitempty"`
	GroupSize        int                 `bson:"group_size" json:"group_size"`
	NumOfInstruments int                 `bson:"num_of_instruments" json:"num_of_instruments"`
	StartTime        time.Time           `bson:"start_time" json:"start_time"`
	Duration         int                 `bson:"duration" json:"duration"`
	Message          string              `bson:"message,omitempty" json:"message,omitempty"`
	Completed        bool                `bson:"completed" json:"completed"`
	Payed            bool                `bson:"payed" json:"payed"`
	ApprovedBy       *primitive.ObjectID `bson:"approved_by,omitempty" json:"approved_by,omitempty"`
	BookedAt         time.Time           `bson:"booked_at" json:"booked_at"`
	LastUpdated      time.Time           `bson:"last_updated" json:"last_updated"`

	// Approver is the resolved approved_by account, filled in after fetch.
	// Never persisted.
	Approver *User `bson:"-" json:"-"`
}

// Cost returns the session price at the given hourly rate.
func (b *Booking) Cost(rate float64) float64 {
	return float64(b.Duration) * rate
}

// EndTime returns when the session finishes.
func (b *Booking) EndTime() time.Time {
	return b.StartTime.Add(time.Duration(b.Duration) * time.Hour)
}
