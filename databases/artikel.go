package databases

// go generate: mockery --name ArtikelDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbuddy/lawbuddy-api/models"
)

const artikelName = "artikels"

// ArtikelDatabase contains the methods to use with the artikel database
type ArtikelDatabase interface {
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Artikel, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Artikel, error)
	FindAllWithComments(ctx context.Context) ([]models.ArtikelWithComments, error)
	InsertOne(ctx context.Context, artikel models.Artikel) (InsertOneResultHelper, error)
}

type artikelDatabase struct {
	db DatabaseHelper
}

// NewArtikelDatabase initializes a new instance of artikel database with the provided db connection
func NewArtikelDatabase(db DatabaseHelper) ArtikelDatabase {
	return &artikelDatabase{
		db: db,
	}
}

func (a *artikelDatabase) FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) (*models.Artikel, error) {
	artikel := &models.Artikel{}
	err := a.db.Collection(artikelName).FindOne(ctx, filter, opts...).Decode(artikel)
	if err != nil {
		return nil, err
	}
	return artikel, nil
}

func (a *artikelDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Artikel, error) {
	var artikels []models.Artikel
	cur, err := a.db.Collection(artikelName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	err = cur.Decode(&artikels)
	if err != nil {
		return nil, err
	}
	return artikels, nil
}

// FindAllWithComments joins each artikel with its comments, newest artikel first
func (a *artikelDatabase) FindAllWithComments(ctx context.Context) ([]models.ArtikelWithComments, error) {
	pipeline := []bson.M{
		{"$lookup": bson.M{
			"from":         commentName,
			"localField":   "_id",
			"foreignField": "artikelId",
			"as":           "comments",
		}},
		{"$sort": bson.M{"createdAt": -1}},
	}

	cur, err := a.db.Collection(artikelName).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	var artikels []models.ArtikelWithComments
	err = cur.Decode(&artikels)
	if err != nil {
		return nil, err
	}
	return artikels, nil
}

func (a *artikelDatabase) InsertOne(ctx context.Context, artikel models.Artikel) (InsertOneResultHelper, error) {
	return a.db.Collection(artikelName).InsertOne(ctx, artikel)
}
