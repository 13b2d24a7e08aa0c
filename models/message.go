package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message holds the structure for the messages collection in mongo
type Message struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	ChatID    primitive.ObjectID `json:"chatId" bson:"chatId"`
	SenderID  primitive.ObjectID `json:"senderId" bson:"senderId"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
