package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

// Lawyer exported for testing purposes
type Lawyer struct {
	DB databases.UserDatabase
}

// LawyerHandler returns every user holding the LAWYER role
func (l Lawyer) LawyerHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	lawyers, err := l.DB.Find(ctx, bson.M{"role": models.RoleLawyer})
	if err != nil {
		config.ErrorStatus("failed to get lawyers", http.StatusInternalServerError, w, err)
		return
	}
	// the frontend expects an array even when no lawyer is registered
	if len(lawyers) == 0 {
		lawyers = []models.User{}
	}

	b, err := json.Marshal(lawyers)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// UpdateReservationsHandler replaces the reserved-date list on both the
// caller's and the target lawyer's records. The two writes are independent,
// there is no cross-record atomicity.
func (l Lawyer) UpdateReservationsHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}

	var req models.UpdateReservationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.IDLawyer == "" || req.ReservedDates == nil {
		config.ErrorStatus("Lawyer ID and reserved dates are required", http.StatusBadRequest, w, fmt.Errorf("missing idLawyer or reservedDates"))
		return
	}

	callerID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	lawyerID, err := primitive.ObjectIDFromHex(req.IDLawyer)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := l.DB.FindOne(ctx, bson.M{"_id": lawyerID}); err != nil {
		if err == mongo.ErrNoDocuments {
			config.ErrorStatus("Lawyer not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get lawyer by ID", http.StatusInternalServerError, w, err)
		return
	}

	update := bson.M{"$set": bson.M{
		"reservedDates": req.ReservedDates,
		"updatedAt":     time.Now(),
	}}

	if _, err := l.DB.UpdateOne(ctx, bson.M{"_id": callerID}, update); err != nil {
		config.ErrorStatus("failed to update reservations", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := l.DB.UpdateOne(ctx, bson.M{"_id": lawyerID}, update); err != nil {
		config.ErrorStatus("failed to update reservations", http.StatusInternalServerError, w, err)
		return
	}

	lawyer, err := l.DB.FindOne(ctx, bson.M{"_id": lawyerID})
	if err != nil {
		config.ErrorStatus("failed to get lawyer by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(lawyer)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
