package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/api/handlers"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/databases/mocks"
	"github.com/lawbuddy/lawbuddy-api/models"
)

func TestAuth_RegisterHandlerMissingFields(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Jane Doe", "email": "", "password": ""}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/register", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Auth{Config: config.Config{JWTSecret: "test-secret"}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error": "All fields are required"}`, rr.Body.String())
}

func TestAuth_RegisterHandlerDuplicateEmail(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Jane Doe", "email": "jane@example.com", "password": "hunter22"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/register", body)
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.ID = primitive.NewObjectID()
		arg.Email = "jane@example.com"
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	h := handlers.Auth{
		DB:     databases.NewUserDatabase(db),
		Config: config.Config{JWTSecret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, `{"error": "User already exists"}`, rr.Body.String())
}

func TestAuth_RegisterHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Jane Doe", "email": "jane@example.com", "password": "hunter22"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/register", body)
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	conn.(*mocks.CollectionHelper).On("InsertOne", mock.Anything, mock.Anything).Return(&mocks.InsertOneResultHelper{}, nil)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	h := handlers.Auth{
		DB:     databases.NewUserDatabase(db),
		Config: config.Config{JWTSecret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.RegisterHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var got models.RegisterResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, models.RoleUser, got.User.Role)
	assert.NotEmpty(t, got.Token)

	// the issued token must carry the new user's identity
	claims, err := api.ParseToken(got.Token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, got.User.ID, claims.ID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuth_LoginHandlerMissingFields(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "jane@example.com"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	h := handlers.Auth{Config: config.Config{JWTSecret: "test-secret"}}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error": "Email and password are required"}`, rr.Body.String())
}

func TestAuth_LoginHandlerUnknownEmail(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "nobody@example.com", "password": "hunter22"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	h := handlers.Auth{
		DB:     databases.NewUserDatabase(db),
		Config: config.Config{JWTSecret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error": "Invalid credentials"}`, rr.Body.String())
}

func TestAuth_LoginHandlerWrongPassword(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "jane@example.com", "password": "wrong-password"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	assert.NoError(t, err)

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.ID = primitive.NewObjectID()
		arg.Email = "jane@example.com"
		arg.Password = string(hashed)
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	h := handlers.Auth{
		DB:     databases.NewUserDatabase(db),
		Config: config.Config{JWTSecret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LoginHandler).ServeHTTP(rr, req)

	// wrong password and unknown email must be indistinguishable
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error": "Invalid credentials"}`, rr.Body.String())
}

func TestAuth_LoginHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{"email": "jane@example.com", "password": "hunter22"}`)
	req, err := http.NewRequest("POST", "/api/v1/auth/login", body)
	if err != nil {
		t.Fatal(err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte("hunter22"), bcrypt.MinCost)
	assert.NoError(t, err)

	uID := primitive.NewObjectID()

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.ID = uID
		arg.Email = "jane@example.com"
		arg.Password = string(hashed)
		arg.Role = models.RoleLawyer
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	h := handlers.Auth{
		DB:     databases.NewUserDatabase(db),
		Config: config.Config{JWTSecret: "test-secret"},
	}

	rr := httptest.NewRecorder()
	http.HandlerFunc(h.LoginHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.LoginResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))

	claims, err := api.ParseToken(got.Token, "test-secret")
	assert.NoError(t, err)
	assert.Equal(t, uID.Hex(), claims.ID)
	assert.Equal(t, models.RoleLawyer, claims.Role)
}
