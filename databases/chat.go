package databases

// go generate: mockery --name ChatDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbuddy/lawbuddy-api/models"
)

const chatName = "chats"

// ChatDatabase contains the methods to use with the chat database
type ChatDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Chat, error)
	FindDetails(ctx context.Context, userID primitive.ObjectID) ([]models.ChatDetail, error)
	InsertOne(ctx context.Context, chat models.Chat) (InsertOneResultHelper, error)
}

type chatDatabase struct {
	db DatabaseHelper
}

// NewChatDatabase initializes a new instance of chat database with the provided db connection
func NewChatDatabase(db DatabaseHelper) ChatDatabase {
	return &chatDatabase{
		db: db,
	}
}

func (c *chatDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Chat, error) {
	chat := &models.Chat{}
	err := c.db.Collection(chatName).FindOne(ctx, filter, opts...).Decode(chat)
	if err != nil {
		return nil, err
	}
	return chat, nil
}

// FindDetails returns every chat the user takes part in, with its messages
// and both parties' public profile fields joined in
func (c *chatDatabase) FindDetails(ctx context.Context, userID primitive.ObjectID) ([]models.ChatDetail, error) {
	pipeline := []bson.M{
		{"$match": bson.M{"$or": []bson.M{
			{"senderId": userID},
			{"receiverId": userID},
		}}},
		{"$lookup": bson.M{
			"from":         messageName,
			"localField":   "_id",
			"foreignField": "chatId",
			"as":           "messages",
		}},
		{"$lookup": bson.M{
			"from":         userName,
			"localField":   "senderId",
			"foreignField": "_id",
			"as":           "sender",
		}},
		{"$lookup": bson.M{
			"from":         userName,
			"localField":   "receiverId",
			"foreignField": "_id",
			"as":           "receiver",
		}},
		{"$unwind": bson.M{"path": "$sender", "preserveNullAndEmptyArrays": true}},
		{"$unwind": bson.M{"path": "$receiver", "preserveNullAndEmptyArrays": true}},
		{"$project": bson.M{
			"_id":       1,
			"createdAt": 1,
			"updatedAt": 1,
			"messages":  1,
			"sender":    bson.M{"_id": 1, "name": 1, "email": 1},
			"receiver":  bson.M{"_id": 1, "name": 1, "email": 1},
		}},
	}

	cur, err := c.db.Collection(chatName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var chats []models.ChatDetail
	err = cur.Decode(&chats)
	if err != nil {
		return nil, err
	}
	return chats, nil
}

func (c *chatDatabase) InsertOne(ctx context.Context, chat models.Chat) (InsertOneResultHelper, error) {
	return c.db.Collection(chatName).InsertOne(ctx, chat)
}
