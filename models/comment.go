package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment holds the structure for the comments collection in mongo. Name is
// the author's display name, denormalized at creation time.
type Comment struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Name      string             `json:"name" bson:"name"`
	AuthorID  primitive.ObjectID `json:"authorId" bson:"authorId"`
	ArtikelID primitive.ObjectID `json:"artikelId" bson:"artikelId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
