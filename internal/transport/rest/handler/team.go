package handler

import (
	"astrohunt/internal/service"
	"astrohunt/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
)

// TeamHandler handles player-facing team and game endpoints
type TeamHandler struct {
	teamSvc        *service.TeamService
	gameSvc        *service.GameService
	leaderboardSvc *service.LeaderboardService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(
	teamSvc *service.TeamService,
	gameSvc *service.GameService,
	leaderboardSvc *service.LeaderboardService,
) *TeamHandler {
	return &TeamHandler{
		teamSvc:        teamSvc,
		gameSvc:        gameSvc,
		leaderboardSvc: leaderboardSvc,
	}
}

// CreateTeamRequest is the request body for creating a team
type CreateTeamRequest struct {
	TeamName string `json:"teamName"`
}

// CreateTeam handles POST /v1/createTeam
func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	var req CreateTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	team, err := h.teamSvc.CreateTeam(r.Context(), middleware.GetUserID(r.Context()), req.TeamName)
	if err != nil {
		respondError(w, "failed to create team", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Team created successfully",
		"team":    team,
	})
}

// GetTeamCode handles GET /v1/getTeamCodeToTeamLeader
func (h *TeamHandler) GetTeamCode(w http.ResponseWriter, r *http.Request) {
	code, err := h.teamSvc.GetTeamCodeForLeader(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, "failed to get team code", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":   "Team code",
		"team_code": code,
	})
}

// JoinTeamRequest is the request body for joining a team
type JoinTeamRequest struct {
	TeamCode string `json:"teamCode"`
}

// JoinTeam handles POST /v1/joinTeam
func (h *TeamHandler) JoinTeam(w http.ResponseWriter, r *http.Request) {
	var req JoinTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.teamSvc.JoinTeam(r.Context(), middleware.GetUserID(r.Context()), req.TeamCode); err != nil {
		respondError(w, "failed to join team", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Joined team successfully",
	})
}

// GetCurrentQuestion handles GET /v1/getCurrentQuestion
func (h *TeamHandler) GetCurrentQuestion(w http.ResponseWriter, r *http.Request) {
	question, err := h.teamSvc.GetCurrentQuestion(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		respondError(w, "failed to get current question", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":      "Current question",
		"currQuestion": question,
	})
}

// SubmitCodeRequest is the request body for submitting an answer code
type SubmitCodeRequest struct {
	QuestionID   string `json:"questionId"`
	QuestionCode string `json:"questionCode"`
}

// SubmitQuestionCode handles POST /v1/submitQuestionCode
func (h *TeamHandler) SubmitQuestionCode(w http.ResponseWriter, r *http.Request) {
	var req SubmitCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	team, err := h.gameSvc.SubmitQuestionCode(r.Context(), middleware.GetUserID(r.Context()), req.QuestionID, req.QuestionCode)
	if err != nil {
		respondError(w, "failed to submit question code", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Question submitted successfully",
		"score":   team.Score,
	})
}

// Leaderboard handles GET /v1/getPlayerLeaderBoard
func (h *TeamHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboardSvc.GetLeaderboard(r.Context())
	if err != nil {
		respondError(w, "failed to fetch player leaderboard", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Player Leaderboard",
		"leaderboard": entries,
	})
}
