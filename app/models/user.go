package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a studio account. Password is a bcrypt hash and never serialises.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name              string             `bson:"name" json:"name"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password" json:"-"`
	PasswordChangedAt time.Time          `bson:"password_changed_at,omitempty" json:"-"`
	Verified          bool               `bson:"verified" json:"verified"`
	Active            bool               `bson:"active" json:"-"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at" json:"updated_at"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Stale tokens must be rejected by the guard.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt.IsZero() {
		return false
	}
	return u.PasswordChangedAt.After(issuedAt)
}
