package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgScoreUpdate       MessageType = "score_update"
	MsgQuestionAdvanced  MessageType = "question_advanced"
	MsgLeaderboardUpdate MessageType = "leaderboard_update"
	MsgGameStarted       MessageType = "game_started"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub manages WebSocket connections: anonymous leaderboard spectators and
// authenticated team members.
type Hub struct {
	spectators map[*Connection]bool
	teamConns  map[string]map[*Connection]bool // teamID -> conns

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *BroadcastMessage
}

// Connection represents a WebSocket connection
type Connection struct {
	TeamID string // Empty for spectator connections
	UserID string
	Send   chan []byte
	Hub    *Hub
}

// BroadcastMessage is a message to broadcast
type BroadcastMessage struct {
	TeamID  string // Empty means spectators + everyone
	Message *Message
}

// NewHub creates a new WebSocket hub
func NewHub() *Hub {
	h := &Hub{
		spectators: make(map[*Connection]bool),
		teamConns:  make(map[string]map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *BroadcastMessage, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			if conn.TeamID == "" {
				h.spectators[conn] = true
				log.Println("Spectator connected to leaderboard feed")
			} else {
				if h.teamConns[conn.TeamID] == nil {
					h.teamConns[conn.TeamID] = make(map[*Connection]bool)
				}
				h.teamConns[conn.TeamID][conn] = true
				log.Printf("User %s connected to team %s feed", conn.UserID, conn.TeamID)
			}
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if conn.TeamID == "" {
				if h.spectators[conn] {
					delete(h.spectators, conn)
					close(conn.Send)
				}
			} else {
				if conns, ok := h.teamConns[conn.TeamID]; ok && conns[conn] {
					delete(conns, conn)
					close(conn.Send)
					if len(conns) == 0 {
						delete(h.teamConns, conn.TeamID)
					}
				}
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg.Message)

			if msg.TeamID != "" {
				for conn := range h.teamConns[msg.TeamID] {
					select {
					case conn.Send <- data:
					default:
						// Drop message if buffer full
					}
				}
			} else {
				for conn := range h.spectators {
					select {
					case conn.Send <- data:
					default:
					}
				}
				for _, conns := range h.teamConns {
					for conn := range conns {
						select {
						case conn.Send <- data:
						default:
						}
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastToTeam sends a message to every member of a team (implements service.Broadcaster)
func (h *Hub) BroadcastToTeam(teamID string, msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		TeamID: teamID,
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}

// BroadcastToAll sends a message to spectators and all teams (implements service.Broadcaster)
func (h *Hub) BroadcastToAll(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &BroadcastMessage{
		Message: &Message{
			Type:    MessageType(msgType),
			Payload: data,
		},
	}
}
