package service

// Broadcaster pushes game events to connected WebSocket clients. The ws
// hub implements it; services stay decoupled from the transport.
type Broadcaster interface {
	BroadcastToTeam(teamID string, msgType string, payload interface{})
	BroadcastToAll(msgType string, payload interface{})
}

// Message types emitted by the game.
const (
	MsgScoreUpdate       = "score_update"
	MsgQuestionAdvanced  = "question_advanced"
	MsgLeaderboardUpdate = "leaderboard_update"
	MsgGameStarted       = "game_started"
)
