package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chat holds the structure for the chats collection in mongo. Lookups are by
// the ordered (senderId, receiverId) pair.
type Chat struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID   primitive.ObjectID `json:"senderId" bson:"senderId"`
	ReceiverID primitive.ObjectID `json:"receiverId" bson:"receiverId"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ChatWithMessages is a chat with its messages joined in
type ChatWithMessages struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
	Messages  []Message          `json:"messages" bson:"messages"`
}

// ChatDetail is the chat listing shape: messages plus both parties' public
// profile fields
type ChatDetail struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
	Messages  []Message          `json:"messages" bson:"messages"`
	Sender    UserRef            `json:"sender" bson:"sender"`
	Receiver  UserRef            `json:"receiver" bson:"receiver"`
}
