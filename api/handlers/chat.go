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
	"go.uber.org/zap"

	"github.com/lawbuddy/lawbuddy-api/api"
	"github.com/lawbuddy/lawbuddy-api/config"
	"github.com/lawbuddy/lawbuddy-api/databases"
	"github.com/lawbuddy/lawbuddy-api/models"
)

// Chat exported for testing purposes
type Chat struct {
	DB  databases.ChatDatabase
	MDB databases.MessageDatabase
	Hub *ChatHub
}

// CreateChatHandler finds or creates the conversation from the caller to the
// given receiver. The pair is directional: caller as sender, receiver as
// receiver. An existing conversation comes back with 200, a fresh one with 201.
func (c Chat) CreateChatHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}

	var req models.CreateChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.ReceiverID == "" {
		config.ErrorStatus("Receiver ID is required", http.StatusBadRequest, w, fmt.Errorf("missing receiverId"))
		return
	}

	senderID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	chat, err := c.DB.FindOne(ctx, bson.M{"senderId": senderID, "receiverId": receiverID})
	if err != nil && err != mongo.ErrNoDocuments {
		config.ErrorStatus("failed to get chat", http.StatusInternalServerError, w, err)
		return
	}

	status := http.StatusOK
	if err == mongo.ErrNoDocuments {
		now := time.Now()
		chat = &models.Chat{
			ID:         primitive.NewObjectID(),
			SenderID:   senderID,
			ReceiverID: receiverID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if _, err := c.DB.InsertOne(ctx, *chat); err != nil {
			config.ErrorStatus("failed to insert chat", http.StatusInternalServerError, w, err)
			return
		}
		status = http.StatusCreated
	}

	messages, err := c.MDB.Find(ctx, bson.M{"chatId": chat.ID})
	if err != nil {
		config.ErrorStatus("failed to fetch messages", http.StatusInternalServerError, w, err)
		return
	}
	if len(messages) == 0 {
		messages = []models.Message{}
	}

	b, err := json.Marshal(models.ChatWithMessages{
		ID:        chat.ID,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		Messages:  messages,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(status)
	w.Write(b)
}

// ChatsByUserHandler returns every conversation the caller takes part in,
// either side, with messages and both parties joined in
func (c Chat) ChatsByUserHandler(w http.ResponseWriter, r *http.Request) {
	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}

	userID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	chats, err := c.DB.FindDetails(ctx, userID)
	if err != nil {
		config.ErrorStatus("failed to fetch chats", http.StatusInternalServerError, w, err)
		return
	}
	if len(chats) == 0 {
		chats = []models.ChatDetail{}
	}

	b, err := json.Marshal(chats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ChatByIDHandler returns one conversation with its message history, no auth required
func (c Chat) ChatByIDHandler(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chat_id"]

	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	chat, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if err != nil {
		if err == mongo.ErrNoDocuments {
			config.ErrorStatus("Chat not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get chat by ID", http.StatusInternalServerError, w, err)
		return
	}

	messages, err := c.MDB.Find(ctx, bson.M{"chatId": chat.ID})
	if err != nil {
		config.ErrorStatus("failed to fetch messages", http.StatusInternalServerError, w, err)
		return
	}
	if len(messages) == 0 {
		messages = []models.Message{}
	}

	b, err := json.Marshal(models.ChatWithMessages{
		ID:        chat.ID,
		CreatedAt: chat.CreatedAt,
		UpdatedAt: chat.UpdatedAt,
		Messages:  messages,
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateMessageHandler appends a message to a conversation and pushes it to
// any live stream subscribers
func (c Chat) CreateMessageHandler(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chat_id"]

	cID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	principal, ok := api.PrincipalFromContext(r.Context())
	if !ok {
		config.ErrorStatus("Unauthorized", http.StatusUnauthorized, w, fmt.Errorf("no principal on request"))
		return
	}
	senderID, err := primitive.ObjectIDFromHex(principal.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request", http.StatusBadRequest, w, err)
		return
	}
	if req.Content == "" {
		config.ErrorStatus("Content is required", http.StatusBadRequest, w, fmt.Errorf("missing content"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	message := models.Message{
		ID:        primitive.NewObjectID(),
		Content:   req.Content,
		ChatID:    cID,
		SenderID:  senderID,
		CreatedAt: time.Now(),
	}

	if _, err := c.MDB.InsertOne(ctx, message); err != nil {
		config.ErrorStatus("failed to insert message", http.StatusInternalServerError, w, err)
		return
	}

	if c.Hub != nil {
		c.Hub.Broadcast(chatID, message)
	}

	b, err := json.Marshal(message)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// StreamHandler upgrades the connection and keeps it subscribed to the chat
// until the client goes away
func (c Chat) StreamHandler(w http.ResponseWriter, r *http.Request) {
	chatID := mux.Vars(r)["chat_id"]

	if _, err := primitive.ObjectIDFromHex(chatID); err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().With(err).Error("websocket upgrade failed")
		return
	}

	c.Hub.register(chatID, conn)
	zap.S().Debugw("subscriber connected", "chatId", chatID)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}

	c.Hub.unregister(chatID, conn)
	conn.Close()
	zap.S().Debugw("subscriber disconnected", "chatId", chatID)
}
