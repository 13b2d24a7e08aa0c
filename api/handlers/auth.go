package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

// Auth exported for testing purposes
type Auth struct {
	DB     databases.UserDatabase
	Config config.Config
}

// RegisterHandler creates a user account with role USER and returns a session token
func (a Auth) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		config.ErrorStatus("All fields are required", http.StatusBadRequest, w, fmt.Errorf("missing name, email or password"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	// check if the user already exists
	existingUser, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil && err != mongo.ErrNoDocuments {
		config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, err)
		return
	}
	if existingUser != nil {
		config.ErrorStatus("User already exists", http.StatusConflict, w, fmt.Errorf("duplicate email"))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := a.DB.InsertOne(ctx, user); err != nil {
		// the unique index backs the pre-check when two registrations race
		if mongo.IsDuplicateKeyError(err) {
			config.ErrorStatus("User already exists", http.StatusConflict, w, err)
			return
		}
		config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, err)
		return
	}

	token, err := api.SignToken(user.ID.Hex(), user.Role, a.Config.JWTSecret, api.TokenTTL)
	if err != nil {
		config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, err)
		return
	}

	if a.Config.SendgridKey != "" {
		go a.sendWelcomeEmail(user)
	}

	b, err := json.Marshal(models.RegisterResponse{
		User:  models.RegisteredUser{ID: user.ID.Hex(), Role: user.Role},
		Token: token,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// LoginHandler exchanges credentials for a session token. Unknown emails and
// wrong passwords are indistinguishable in the response.
func (a Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		config.ErrorStatus("Email and password are required", http.StatusBadRequest, w, fmt.Errorf("missing email or password"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	user, err := a.DB.FindOne(ctx, bson.M{"email": req.Email})
	if err != nil {
		config.ErrorStatus("Invalid credentials", http.StatusUnauthorized, w, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		config.ErrorStatus("Invalid credentials", http.StatusUnauthorized, w, err)
		return
	}

	token, err := api.SignToken(user.ID.Hex(), user.Role, a.Config.JWTSecret, api.TokenTTL)
	if err != nil {
		config.ErrorStatus("Internal Server Error", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(models.LoginResponse{Token: token})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// sendWelcomeEmail is best-effort, failures are only logged
func (a Auth) sendWelcomeEmail(user models.User) {
	from := mail.NewEmail("LawBuddy", a.Config.SendgridFrom)
	to := mail.NewEmail(user.Name, user.Email)
	subject := "Welcome to LawBuddy"
	content := fmt.Sprintf("Hi %s,\n\nYour account is ready. You can now browse articles, talk to lawyers and book consultations.\n\nThe LawBuddy team", user.Name)
	message := mail.NewSingleEmail(from, subject, to, content, content)

	client := sendgrid.NewSendClient(a.Config.SendgridKey)
	resp, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send welcome email",
			"email", user.Email,
			"error", err)
		return
	}
	zap.S().Debugw("welcome email sent",
		"email", user.Email,
		"status", resp.StatusCode)
}
