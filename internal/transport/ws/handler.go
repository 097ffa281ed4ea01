package ws

import (
	"astrohunt/internal/cache"
	"astrohunt/internal/repository"
	"astrohunt/internal/service"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler handles WebSocket connections
type Handler struct {
	hub         *Hub
	authSvc     *service.AuthService
	users       repository.UserRepo
	leaderboard cache.LeaderboardCache
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, authSvc *service.AuthService, users repository.UserRepo, leaderboard cache.LeaderboardCache) *Handler {
	return &Handler{
		hub:         hub,
		authSvc:     authSvc,
		users:       users,
		leaderboard: leaderboard,
	}
}

// LeaderboardWS handles GET /v1/ws/leaderboard (public spectator feed)
func (h *Handler) LeaderboardWS(w http.ResponseWriter, r *http.Request) {
	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		Send: make(chan []byte, 256),
		Hub:  h.hub,
	}

	h.hub.Register(conn)
	h.sendLeaderboardSnapshot(r, conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

// sendLeaderboardSnapshot pushes the current ZSET top to a fresh
// spectator so the feed is populated before the next score change.
func (h *Handler) sendLeaderboardSnapshot(r *http.Request, conn *Connection) {
	entries, err := h.leaderboard.GetTop(r.Context(), 10)
	if err != nil {
		log.Printf("Failed to load leaderboard snapshot: %v", err)
		return
	}

	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	data, err := json.Marshal(&Message{Type: MsgLeaderboardUpdate, Payload: payload})
	if err != nil {
		return
	}

	select {
	case conn.Send <- data:
	default:
	}
}

// TeamWS handles GET /v1/ws/team (token in query param)
func (h *Handler) TeamWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil || user == nil {
		http.Error(w, "unknown user", http.StatusUnauthorized)
		return
	}
	if user.TeamID == nil {
		http.Error(w, "not in a team", http.StatusForbidden)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	conn := &Connection{
		TeamID: user.TeamID.Hex(),
		UserID: claims.UserID,
		Send:   make(chan []byte, 256),
		Hub:    h.hub,
	}

	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, _, err := wsConn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}
		// Incoming messages are ignored; the feed is one-way
	}
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := wsConn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
