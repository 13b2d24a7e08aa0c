package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/api/handlers"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/databases/mocks"
	"github.com/lawbuddy/lawbuddy-api/models"
)

type MockDatabaseHelper struct {
	mock.Mock
}

// Client provides a mock function.
func (_m *MockDatabaseHelper) Client() databases.ClientHelper {
	ret := _m.Called()

	var r0 databases.ClientHelper
	if rf, ok := ret.Get(0).(func() databases.ClientHelper); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.ClientHelper)
		}
	}

	return r0
}

// Collection provides a mock function.
func (_m *MockDatabaseHelper) Collection(name string) databases.CollectionHelper {
	ret := _m.Called(name)

	var r0 databases.CollectionHelper
	if rf, ok := ret.Get(0).(func(string) databases.CollectionHelper); ok {
		r0 = rf(name)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(databases.CollectionHelper)
		}
	}

	return r0
}

// withPrincipal mirrors what the auth middleware puts on the request context
func withPrincipal(req *http.Request, id, role string) *http.Request {
	return req.WithContext(api.WithPrincipal(req.Context(), api.Principal{ID: id, Role: role}))
}

func TestUser_UserHandlerNoPrincipal(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/user", nil)
	if err != nil {
		t.Fatal(err)
	}

	u := handlers.User{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"error": "Unauthorized"}`, rr.Body.String())
}

func TestUser_UserHandlerInvalidID(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/user", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = withPrincipal(req, "asdf", models.RoleUser)

	u := handlers.User{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error": "failed to get objectID from Hex"}`, rr.Body.String())
}

func TestUser_UserHandlerNotFound(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/user", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = withPrincipal(req, "608cafe595eb9dc05379b7f4", models.RoleUser)

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, `{"error": "User not found"}`, rr.Body.String())
}

func TestUser_UserHandlerSuccess(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/user", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = withPrincipal(req, "608cafe595eb9dc05379b7f4", models.RoleUser)

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	uID, _ := primitive.ObjectIDFromHex("608cafe595eb9dc05379b7f4")
	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.ID = uID
		arg.Name = "Jane Doe"
		arg.Email = "jane@example.com"
		arg.Role = models.RoleUser
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "jane@example.com", got.Email)
	assert.NotContains(t, rr.Body.String(), "password")
}

func TestUser_UpdateUserHandlerMissingFields(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "", "email": ""}`)
	req, err := http.NewRequest("PUT", "/api/v1/user", body)
	if err != nil {
		t.Fatal(err)
	}
	req = withPrincipal(req, "608cafe595eb9dc05379b7f4", models.RoleUser)

	u := handlers.User{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UpdateUserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error": "Name and email are required"}`, rr.Body.String())
}

func TestUser_UpdateUserHandlerSuccess(t *testing.T) {
	body := bytes.NewBufferString(`{"name": "Jane Q. Doe", "email": "jane@example.com"}`)
	req, err := http.NewRequest("PUT", "/api/v1/user", body)
	if err != nil {
		t.Fatal(err)
	}
	req = withPrincipal(req, "608cafe595eb9dc05379b7f4", models.RoleUser)

	var db databases.DatabaseHelper
	var conn databases.CollectionHelper
	var singleResultHelper databases.SingleResultHelper

	db = &MockDatabaseHelper{}
	conn = &mocks.CollectionHelper{}
	singleResultHelper = &mocks.SingleResultHelper{}

	conn.(*mocks.CollectionHelper).On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)
	singleResultHelper.(*mocks.SingleResultHelper).On("Decode", mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		arg := args.Get(0).(*models.User)
		arg.Name = "Jane Q. Doe"
		arg.Email = "jane@example.com"
	})
	conn.(*mocks.CollectionHelper).On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	db.(*MockDatabaseHelper).On("Collection", "users").Return(conn)

	u := handlers.User{DB: databases.NewUserDatabase(db)}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UpdateUserHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.User
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "Jane Q. Doe", got.Name)
	conn.(*mocks.CollectionHelper).AssertNumberOfCalls(t, "UpdateOne", 1)
}

func TestUser_UploadImageHandlerForbidden(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/user/image/608cafe595eb9dc05379b7f4", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"user_id": "608cafe595eb9dc05379b7f4"})
	req = withPrincipal(req, "608cafe595eb9dc05379ffff", models.RoleUser)

	u := handlers.User{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UploadImageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, `{"error": "Forbidden: you can only update your own profile"}`, rr.Body.String())
}

func TestUser_UploadImageHandlerNoFile(t *testing.T) {
	req, err := http.NewRequest("POST", "/api/v1/user/image/608cafe595eb9dc05379b7f4", bytes.NewBufferString("not-a-form"))
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req = mux.SetURLVars(req, map[string]string{"user_id": "608cafe595eb9dc05379b7f4"})
	req = withPrincipal(req, "608cafe595eb9dc05379b7f4", models.RoleUser)

	u := handlers.User{}

	rr := httptest.NewRecorder()
	http.HandlerFunc(u.UploadImageHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, `{"error": "No file uploaded"}`, rr.Body.String())
}

var errMocked = errors.New("mocked-error")
