package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

// Artikel exported for testing purposes
type Artikel struct {
	DB  databases.ArtikelDatabase
	CDB databases.CommentDatabase
	UDB databases.UserDatabase
}

// ArtikelsByAuthorHandler returns the authenticated author's articles, newest first
func (a Artikel) ArtikelsByAuthorHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}

	authorID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	artikels, err := a.DB.Find(ctx, bson.M{"authorId": authorID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		config.ErrorStatus("failed to fetch articles", http.StatusInternalServerError, w, err)
		return
	}
	if len(artikels) == 0 {
		artikels = []models.Artikel{}
	}

	b, err := json.Marshal(artikels)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ArtikelFindAllHandler returns every article with its comments nested in.
// This is the public listing, no auth required.
func (a Artikel) ArtikelFindAllHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	artikels, err := a.DB.FindAllWithComments(ctx)
	if err != nil {
		config.ErrorStatus("failed to fetch articles", http.StatusInternalServerError, w, err)
		return
	}
	if len(artikels) == 0 {
		artikels = []models.ArtikelWithComments{}
	}

	b, err := json.Marshal(artikels)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateCommentHandler adds a comment to an existing article. The commenter's
// display name is resolved from the store, "Anonymous" when absent.
func (a Artikel) CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	artikelID := mux.Vars(r)["artikel_id"]

	aID, err := primitive.ObjectIDFromHex(artikelID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}
	authorID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := a.DB.FindOne(ctx, bson.M{"_id": aID}); err != nil {
		if err == mongo.ErrNoDocuments {
			config.ErrorStatus("Artikel not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get artikel by ID", http.StatusInternalServerError, w, err)
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Content == "" {
		config.ErrorStatus("Content is required", http.StatusBadRequest, w, fmt.Errorf("missing content"))
		return
	}

	name := "Anonymous"
	if user, err := a.UDB.FindOne(ctx, bson.M{"_id": authorID}); err == nil && user.Name != "" {
		name = user.Name
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   req.Content,
		Name:      name,
		AuthorID:  authorID,
		ArtikelID: aID,
		CreatedAt: time.Now(),
	}

	if _, err := a.CDB.InsertOne(ctx, comment); err != nil {
		config.ErrorStatus("failed to insert comment", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(comment)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// CommentsByArtikelHandler returns the comments of an existing article, no auth required
func (a Artikel) CommentsByArtikelHandler(w http.ResponseWriter, r *http.Request) {
	artikelID := mux.Vars(r)["artikel_id"]

	aID, err := primitive.ObjectIDFromHex(artikelID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := a.DB.FindOne(ctx, bson.M{"_id": aID}); err != nil {
		if err == mongo.ErrNoDocuments {
			config.ErrorStatus("Artikel not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get artikel by ID", http.StatusInternalServerError, w, err)
		return
	}

	comments, err := a.CDB.Find(ctx, bson.M{"artikelId": aID})
	if err != nil {
		config.ErrorStatus("failed to fetch comments", http.StatusInternalServerError, w, err)
		return
	}
	if len(comments) == 0 {
		comments = []models.Comment{}
	}

	b, err := json.Marshal(comments)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
