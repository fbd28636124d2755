// Package controllers holds the HTTP handlers. Controllers stay thin:
// bind, call a service, transform, respond. All failures funnel through
// c.AppError.
package controllers

import (
	"github.com/tempohq/tempo/app/models"
	"github.com/tempohq/tempo/config"
	"github.com/tempohq/tempo/pkg/resource"
)

// UserResource shapes user responses: no hash, no soft-delete flag.
type UserResource struct{ resource.Base }

func (UserResource) ToArray(v interface{}) resource.Map {
	u, ok := v.(models.User)
	if !ok {
		u = *v.(*models.User)
	}
	return resource.Map{
		"id":         u.ID.Hex(),
		"name":       u.Name,
		"email":      u.Email,
		"verified":   u.Verified,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
}

// BookingResource shapes booking responses and attaches the derived cost
// and end_time fields.
type BookingResource struct{ resource.Base }

func (BookingResource) ToArray(v interface{}) resource.Map {
	b, ok := v.(models.Booking)
	if !ok {
		b = *v.(*models.Booking)
	}

	out := resource.Map{
		"id":                 b.ID.Hex(),
		"customer_type":      b.CustomerType,
		"group_size":         b.GroupSize,
		"num_of_instruments": b.NumOfInstruments,
		"start_time":         b.StartTime,
		"end_time":           b.EndTime(),
		"duration":           b.Duration,
		"cost":               b.Cost(config.SessionRate()),
		"completed":          b.Completed,
		"payed":              b.Payed,
		"booked_at":          b.BookedAt,
		"last_updated":       b.LastUpdated,
	}
	if b.Message != "" {
		out["message"] = b.Message
	}
	if b.Artist != nil {
		out["artist"] = b.Artist
	}
	if b.Band != nil {
		out["band"] = b.Band
	}
	if b.Approver != nil {
		out["approved_by"] = resource.Map{
			"id":    b.Approver.ID.Hex(),
			"name":  b.Approver.Name,
			"email": b.Approver.Email,
		}
	} else if b.ApprovedBy != nil {
		// Approver account no longer resolvable; keep the reference.
		out["approved_by"] = b.ApprovedBy.Hex()
	}
	return out
}
