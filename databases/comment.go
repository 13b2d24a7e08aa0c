package databases

// go generate: mockery --name CommentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbuddy/lawbuddy-api/models"
)

const commentName = "comments"

// CommentDatabase contains the methods to use with the comment database
type CommentDatabase interface {
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Comment, error)
	InsertOne(ctx context.Context, comment models.Comment) (InsertOneResultHelper, error)
}

type commentDatabase struct {
	db DatabaseHelper
}

// NewCommentDatabase initializes a new instance of comment database with the provided db connection
func NewCommentDatabase(db DatabaseHelper) CommentDatabase {
	return &commentDatabase{
		db: db,
	}
}

func (c *commentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Comment, error) {
	var comments []models.Comment
	cur, err := c.db.Collection(commentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&comments)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (c *commentDatabase) InsertOne(ctx context.Context, comment models.Comment) (InsertOneResultHelper, error) {
	return c.db.Collection(commentName).InsertOne(ctx, comment)
}
