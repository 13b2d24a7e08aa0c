package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Artikel holds the structure for the artikels collection in mongo
type Artikel struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Content     string             `json:"content" bson:"content"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	AuthorID    primitive.ObjectID `json:"authorId" bson:"authorId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ArtikelWithComments is an artikel with its comments joined in, used by the
// public listing
type ArtikelWithComments struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
	Content     string             `json:"content" bson:"content"`
	Category    string             `json:"category,omitempty" bson:"category,omitempty"`
	AuthorID    primitive.ObjectID `json:"authorId" bson:"authorId"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
	Comments    []Comment          `json:"comments" bson:"comments"`
}
