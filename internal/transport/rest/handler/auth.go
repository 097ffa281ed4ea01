package handler

import (
	"astrohunt/internal/model"
	"astrohunt/internal/service"
	"encoding/json"
	"errors"
	"net/http"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authSvc *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register handles POST /v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"message": "name, email and password are required",
			"error":   "missing fields",
		})
		return
	}

	resp, err := h.authSvc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(w, "failed to register", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Account created successfully",
		"token":   resp.Token,
		"userId":  resp.UserID,
		"role":    resp.Role,
	})
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, "failed to log in", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logged in successfully",
		"token":   resp.Token,
		"userId":  resp.UserID,
		"role":    resp.Role,
	})
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, map[string]string{
		"message": message,
		"error":   err.Error(),
	})
}

// respondError maps service sentinel errors onto HTTP statuses; anything
// unknown becomes a 500 with the operation message.
func respondError(w http.ResponseWriter, opMessage string, err error) {
	status := statusFor(err)
	message := opMessage
	if status != http.StatusInternalServerError {
		message = err.Error()
	}
	writeError(w, status, message, err)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrAlreadyInTeam),
		errors.Is(err, service.ErrNotATeamLeader),
		errors.Is(err, service.ErrMissingCode),
		errors.Is(err, service.ErrInvalidCode),
		errors.Is(err, service.ErrTeamFull),
		errors.Is(err, service.ErrNotInTeam),
		errors.Is(err, service.ErrNoLevelAssigned),
		errors.Is(err, service.ErrIncorrectCode),
		errors.Is(err, service.ErrQuestionCompleted),
		errors.Is(err, service.ErrNoHints),
		errors.Is(err, service.ErrLevelExists),
		errors.Is(err, service.ErrNoTeams),
		errors.Is(err, service.ErrGameNotReady),
		errors.Is(err, service.ErrEmailTaken):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrLeaderOnly),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrQuestionNotFound),
		errors.Is(err, service.ErrLevelNotFound),
		errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
