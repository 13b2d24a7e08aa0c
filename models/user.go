package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user account can hold.
const (
	RoleAdmin  = "ADMIN"
	RoleUser   = "USER"
	RoleLawyer = "LAWYER"
)

// User holds the structure for the users collection in mongo. The lawyer-only
// fields are meaningful only when Role is LAWYER.
type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name            string             `json:"name" bson:"name"`
	Email           string             `json:"email" bson:"email"`
	Password        string             `json:"-" bson:"password"`
	Role            string             `json:"role" bson:"role"`
	Image           string             `json:"image,omitempty" bson:"image,omitempty"`
	Field           string             `json:"field,omitempty" bson:"field,omitempty"`
	ExperienceYears int                `json:"experienceYears,omitempty" bson:"experienceYears,omitempty"`
	Rating          float64            `json:"rating,omitempty" bson:"rating,omitempty"`
	Price           float64            `json:"price,omitempty" bson:"price,omitempty"`
	ReservedDates   []time.Time        `json:"reservedDates,omitempty" bson:"reservedDates,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// UserRef is the public projection of a chat party
type UserRef struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Name  string             `json:"name" bson:"name"`
	Email string             `json:"email" bson:"email"`
}
