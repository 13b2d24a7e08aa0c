package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/api/scheduler"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
	hub      *ChatHub
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	r := mux.NewRouter()

	guard := api.Auth(a.Config.JWTSecret)

	userDB := databases.NewUserDatabase(a.dbHelper)
	artikelDB := databases.NewArtikelDatabase(a.dbHelper)
	commentDB := databases.NewCommentDatabase(a.dbHelper)
	chatDB := databases.NewChatDatabase(a.dbHelper)
	messageDB := databases.NewMessageDatabase(a.dbHelper)

	if a.hub == nil {
		a.hub = NewChatHub()
	}

	authH := Auth{DB: userDB, Config: a.Config}
	u := User{DB: userDB, Config: a.Config}
	l := Lawyer{DB: userDB}
	art := Artikel{DB: artikelDB, CDB: commentDB, UDB: userDB}
	ch := Chat{DB: chatDB, MDB: messageDB, Hub: a.hub}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	// websocket upgrades must not run under the timeout middleware
	r.HandleFunc("/api/v1/chat/{chat_id}/stream", ch.StreamHandler).Methods("GET")

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.CORSMiddleware)
	apiCreate.Use(api.JSONContentType)
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/register", http.HandlerFunc(authH.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(authH.LoginHandler)).Methods("POST")

	apiCreate.Handle("/user", guard(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user", guard(http.HandlerFunc(u.UpdateUserHandler))).Methods("PUT")
	apiCreate.Handle("/user/image/{user_id}", guard(http.HandlerFunc(u.UploadImageHandler))).Methods("POST")

	apiCreate.Handle("/lawyer", guard(http.HandlerFunc(l.LawyerHandler))).Methods("GET")
	apiCreate.Handle("/lawyer", guard(http.HandlerFunc(l.UpdateReservationsHandler))).Methods("PUT")

	apiCreate.Handle("/artikel", guard(http.HandlerFunc(art.ArtikelsByAuthorHandler))).Methods("GET")
	apiCreate.Handle("/artikels", http.HandlerFunc(art.ArtikelFindAllHandler)).Methods("GET")
	apiCreate.Handle("/artikel/{artikel_id}", guard(http.HandlerFunc(art.CreateCommentHandler))).Methods("POST")
	apiCreate.Handle("/artikel/{artikel_id}/comments", http.HandlerFunc(art.CommentsByArtikelHandler)).Methods("GET")

	apiCreate.Handle("/chat", guard(http.HandlerFunc(ch.CreateChatHandler))).Methods("POST")
	apiCreate.Handle("/chat", guard(http.HandlerFunc(ch.ChatsByUserHandler))).Methods("GET")
	apiCreate.Handle("/chat/{chat_id}", http.HandlerFunc(ch.ChatByIDHandler)).Methods("GET")
	apiCreate.Handle("/chat/{chat_id}", guard(http.HandlerFunc(ch.CreateMessageHandler))).Methods("POST")

	// preflight catch-all so CORSMiddleware can answer OPTIONS on every API path
	apiCreate.PathPrefix("/").Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("lawbuddy-api has connected to the database")

	userDB := databases.NewUserDatabase(a.dbHelper)

	ctx, cancel := api.WithQueryTimeout(nil)
	defer cancel()
	if err := userDB.EnsureEmailIndex(ctx); err != nil {
		zap.S().With(err).Warn("failed to ensure unique email index")
	}

	// background job keeps lawyer availability current
	scheduler.NewScheduler(userDB).Start()

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
