package handlers

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/lawbuddy/lawbuddy-api/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ChatHub tracks live websocket subscribers per chat so new messages can be
// pushed to everyone watching that conversation.
type ChatHub struct {
	subscribers map[string][]*websocket.Conn
	mutex       sync.Mutex
}

// NewChatHub initializes an empty hub
func NewChatHub() *ChatHub {
	return &ChatHub{
		subscribers: make(map[string][]*websocket.Conn),
	}
}

func (h *ChatHub) register(chatID string, conn *websocket.Conn) {
	h.mutex.Lock()
	h.subscribers[chatID] = append(h.subscribers[chatID], conn)
	h.mutex.Unlock()
}

func (h *ChatHub) unregister(chatID string, conn *websocket.Conn) {
	h.mutex.Lock()
	conns := h.subscribers[chatID]
	for i, c := range conns {
		if c == conn {
			h.subscribers[chatID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.subscribers[chatID]) == 0 {
		delete(h.subscribers, chatID)
	}
	h.mutex.Unlock()
}

// Broadcast pushes a message to every subscriber of the chat. The hub lock
// is held across the writes so concurrent broadcasts never hit the same
// connection at once. Dead connections are dropped on write failure.
func (h *ChatHub) Broadcast(chatID string, message models.Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	alive := h.subscribers[chatID][:0]
	for _, conn := range h.subscribers[chatID] {
		err := conn.WriteJSON(map[string]interface{}{
			"event": "new_message",
			"data":  message,
		})
		if err != nil {
			zap.S().With(err).Warn("failed to push message, dropping subscriber")
			conn.Close()
			continue
		}
		alive = append(alive, conn)
	}
	if len(alive) == 0 {
		delete(h.subscribers, chatID)
	} else {
		h.subscribers[chatID] = alive
	}
}
