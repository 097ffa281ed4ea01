package handler

import (
	"astrohunt/internal/model"
	"astrohunt/internal/service"
	"astrohunt/internal/transport/rest/middleware"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const maxUploadBytes = 10 << 20 // 10 MiB

// AdminHandler handles admin-only level and question management
type AdminHandler struct {
	questionSvc *service.QuestionService
	gameSvc     *service.GameService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(questionSvc *service.QuestionService, gameSvc *service.GameService) *AdminHandler {
	return &AdminHandler{
		questionSvc: questionSvc,
		gameSvc:     gameSvc,
	}
}

// AddLevelRequest is the request body for creating a level
type AddLevelRequest struct {
	Level int `json:"level"`
}

// AddLevel handles POST /v1/admin/addLevel
func (h *AdminHandler) AddLevel(w http.ResponseWriter, r *http.Request) {
	var req AddLevelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	level, err := h.questionSvc.AddLevel(r.Context(), req.Level)
	if err != nil {
		respondError(w, "failed to create level", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message":  "Level created successfully",
		"newLevel": level,
	})
}

// AddQuestion handles POST /v1/admin/addQuestion (multipart form)
func (h *AdminHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	levelNum, err := strconv.Atoi(r.FormValue("levelNum"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "levelNum must be a number", err)
		return
	}

	creatorID, err := primitive.ObjectIDFromHex(middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", err)
		return
	}

	in := service.AddQuestionInput{
		LevelNumber: levelNum,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Hints:       r.MultipartForm.Value["hints"],
		CorrectCode: r.FormValue("correctCode"),
		CreatedBy:   creatorID,
	}
	if pts := r.FormValue("points"); pts != "" {
		points, err := strconv.Atoi(pts)
		if err != nil {
			writeError(w, http.StatusBadRequest, "points must be a number", err)
			return
		}
		in.Points = points
	}

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		in.Image = &service.ImageUpload{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		}
	}

	question, err := h.questionSvc.AddQuestion(r.Context(), in)
	if err != nil {
		respondError(w, "failed to create question", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Question created successfully",
		"question": map[string]interface{}{
			"id":        question.ID.Hex(),
			"title":     question.Title,
			"level":     question.LevelID.Hex(),
			"image":     question.Image,
			"createdAt": question.CreatedAt,
		},
	})
}

// ModifyQuestion handles PUT /v1/admin/modifyQuestion/{questionId} (multipart form)
func (h *AdminHandler) ModifyQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	var in service.ModifyQuestionInput
	if v, ok := formValue(r, "title"); ok {
		in.Title = &v
	}
	if v, ok := formValue(r, "description"); ok {
		in.Description = &v
	}
	if v, ok := formValue(r, "correctCode"); ok {
		in.CorrectCode = &v
	}
	if v, ok := formValue(r, "points"); ok {
		points, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "points must be a number", err)
			return
		}
		in.Points = &points
	}
	if v, ok := formValue(r, "levelNum"); ok {
		levelNum, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "levelNum must be a number", err)
			return
		}
		in.LevelNumber = &levelNum
	}
	if hints, ok := r.MultipartForm.Value["hints"]; ok {
		in.Hints = hints
	}

	isImageUpdated := r.FormValue("isImageUpdated") == "true"

	var upload *service.ImageUpload
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		upload = &service.ImageUpload{
			Reader:      file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
			Filename:    header.Filename,
		}
	}

	question, err := h.questionSvc.ModifyQuestion(r.Context(), questionID, in, isImageUpdated, upload)
	if err != nil {
		respondError(w, "failed to update question", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Question updated successfully",
		"question": map[string]interface{}{
			"id":          question.ID.Hex(),
			"title":       question.Title,
			"level":       question.LevelID.Hex(),
			"description": question.Description,
			"hints":       question.Hints,
			"image":       question.Image,
			"updatedAt":   question.UpdatedAt,
		},
	})
}

// DeleteQuestion handles DELETE /v1/admin/deleteQuestion/{questionId}
func (h *AdminHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	questionID := mux.Vars(r)["questionId"]

	if err := h.questionSvc.DeleteQuestion(r.Context(), questionID); err != nil {
		respondError(w, "failed to delete question", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Question deleted successfully",
	})
}

// GetAllLevels handles GET /v1/admin/getAllLevels
func (h *AdminHandler) GetAllLevels(w http.ResponseWriter, r *http.Request) {
	levels, err := h.questionSvc.GetAllLevels(r.Context())
	if err != nil {
		respondError(w, "failed to get all levels", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "All levels",
		"levels":  levels,
	})
}

// GetQuestionsByLevel handles GET /v1/admin/getAllQuestionsByLevel/{levelId}
func (h *AdminHandler) GetQuestionsByLevel(w http.ResponseWriter, r *http.Request) {
	levelID := mux.Vars(r)["levelId"]

	questions, err := h.questionSvc.GetQuestionsByLevel(r.Context(), levelID)
	if err != nil {
		respondError(w, "failed to get questions", err)
		return
	}
	if questions == nil {
		questions = []*model.Question{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Level questions",
		"questions": questions,
	})
}

// DeleteLevel handles DELETE /v1/admin/deleteLevel/{levelId}
func (h *AdminHandler) DeleteLevel(w http.ResponseWriter, r *http.Request) {
	levelID := mux.Vars(r)["levelId"]

	if err := h.questionSvc.DeleteLevel(r.Context(), levelID); err != nil {
		respondError(w, "failed to delete level", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Level deleted successfully",
	})
}

// StartGame handles POST /v1/admin/startGame
func (h *AdminHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	assigned, err := h.gameSvc.StartGame(r.Context())
	if err != nil {
		respondError(w, "failed to start game", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Game started",
		"teamsAssigned": assigned,
	})
}

// formValue reports a form field's value and whether the field was
// present at all, which partial updates need to distinguish.
func formValue(r *http.Request, key string) (string, bool) {
	if r.MultipartForm == nil {
		return "", false
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}
