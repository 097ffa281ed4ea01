package service

import (
	"astrohunt/internal/media"
	"astrohunt/internal/model"
	"astrohunt/internal/repository"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrLevelExists   = errors.New("level already exists")
	ErrLevelNotFound = errors.New("level not found")
	ErrNoHints       = errors.New("at least one hint is required")
)

// ImageUpload is a pending question image read from a multipart form.
type ImageUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

// AddQuestionInput carries everything needed to create a question.
type AddQuestionInput struct {
	LevelNumber int
	Title       string
	Description string
	Hints       []string
	CorrectCode string
	Points      int
	CreatedBy   primitive.ObjectID
	Image       *ImageUpload
}

// ModifyQuestionInput carries partial scalar updates; nil fields are left
// untouched.
type ModifyQuestionInput struct {
	Title       *string
	Description *string
	CorrectCode *string
	Points      *int
	Hints       []string
	LevelNumber *int
}

// QuestionService is the admin-facing management of levels and questions,
// including the image lifecycle on the media host.
type QuestionService struct {
	levels    repository.LevelRepo
	questions repository.QuestionRepo
	media     media.Store
}

// NewQuestionService creates a new question service
func NewQuestionService(
	levels repository.LevelRepo,
	questions repository.QuestionRepo,
	mediaStore media.Store,
) *QuestionService {
	return &QuestionService{
		levels:    levels,
		questions: questions,
		media:     mediaStore,
	}
}

// AddLevel creates a level with the given ordinal.
func (s *QuestionService) AddLevel(ctx context.Context, number int) (*model.Level, error) {
	existing, err := s.levels.GetByNumber(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to look up level: %w", err)
	}
	if existing != nil {
		return nil, ErrLevelExists
	}

	level := &model.Level{Level: number}
	if _, err := s.levels.Create(ctx, level); err != nil {
		return nil, fmt.Errorf("failed to create level: %w", err)
	}
	return level, nil
}

// AddQuestion creates a question under an existing level. Raw hint
// strings are normalized into locked hints with the default unlock delay.
// If persisting fails after a successful image upload, the upload is
// cleaned up.
func (s *QuestionService) AddQuestion(ctx context.Context, in AddQuestionInput) (*model.Question, error) {
	level, err := s.levels.GetByNumber(ctx, in.LevelNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to look up level: %w", err)
	}
	if level == nil {
		return nil, ErrLevelNotFound
	}
	if len(in.Hints) == 0 {
		return nil, ErrNoHints
	}

	hints := make([]model.Hint, len(in.Hints))
	for i, text := range in.Hints {
		hints[i] = model.Hint{
			Text:       text,
			Flag:       false,
			UnlockTime: model.DefaultHintUnlockMinutes,
		}
	}

	var image *model.Image
	if in.Image != nil {
		url, objectID, err := s.media.Upload(ctx, in.Image.Reader, in.Image.Size, in.Image.ContentType, in.Image.Filename)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		image = &model.Image{URL: url, PublicID: objectID, Alt: in.Title}
	}

	points := in.Points
	if points == 0 {
		points = model.DefaultQuestionPoints
	}

	question := &model.Question{
		LevelID:     level.ID,
		Title:       in.Title,
		Description: in.Description,
		Hints:       hints,
		CorrectCode: in.CorrectCode,
		Points:      points,
		Image:       image,
		CreatedBy:   in.CreatedBy,
	}

	if _, err := s.questions.Create(ctx, question); err != nil {
		s.cleanupImage(ctx, image)
		return nil, fmt.Errorf("failed to create question: %w", err)
	}

	if err := s.levels.PushQuestion(ctx, level.ID, question.ID); err != nil {
		s.cleanupImage(ctx, image)
		return nil, fmt.Errorf("failed to link question to level: %w", err)
	}

	return question, nil
}

// ModifyQuestion applies partial updates. When isImageUpdated is true and
// a file is supplied, the previous image is deleted and replaced; on a
// failure after the new upload, the new upload is cleaned up.
func (s *QuestionService) ModifyQuestion(ctx context.Context, questionID string, in ModifyQuestionInput, isImageUpdated bool, upload *ImageUpload) (*model.Question, error) {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	var newImage *model.Image
	if isImageUpdated && upload != nil {
		if question.Image != nil && question.Image.PublicID != "" {
			if err := s.media.Delete(ctx, question.Image.PublicID); err != nil {
				log.Printf("Failed to delete previous image %s: %v", question.Image.PublicID, err)
			}
		}

		alt := question.Title
		if in.Title != nil {
			alt = *in.Title
		}
		url, objectID, err := s.media.Upload(ctx, upload.Reader, upload.Size, upload.ContentType, upload.Filename)
		if err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		newImage = &model.Image{URL: url, PublicID: objectID, Alt: alt}
		question.Image = newImage
	}

	if in.Title != nil {
		question.Title = *in.Title
	}
	if in.Description != nil {
		question.Description = *in.Description
	}
	if in.CorrectCode != nil {
		question.CorrectCode = *in.CorrectCode
	}
	if in.Points != nil {
		question.Points = *in.Points
	}
	if in.Hints != nil {
		hints := make([]model.Hint, len(in.Hints))
		for i, text := range in.Hints {
			hints[i] = model.Hint{Text: text, Flag: false, UnlockTime: model.DefaultHintUnlockMinutes}
		}
		question.Hints = hints
	}

	if in.LevelNumber != nil {
		target, err := s.levels.GetByNumber(ctx, *in.LevelNumber)
		if err != nil {
			s.cleanupImage(ctx, newImage)
			return nil, fmt.Errorf("failed to look up level: %w", err)
		}
		if target == nil {
			s.cleanupImage(ctx, newImage)
			return nil, ErrLevelNotFound
		}
		if target.ID != question.LevelID {
			if err := s.levels.PullQuestion(ctx, question.LevelID, question.ID); err != nil {
				s.cleanupImage(ctx, newImage)
				return nil, fmt.Errorf("failed to detach question from level: %w", err)
			}
			if err := s.levels.PushQuestion(ctx, target.ID, question.ID); err != nil {
				s.cleanupImage(ctx, newImage)
				return nil, fmt.Errorf("failed to attach question to level: %w", err)
			}
			question.LevelID = target.ID
		}
	}

	if err := s.questions.Update(ctx, question); err != nil {
		s.cleanupImage(ctx, newImage)
		return nil, fmt.Errorf("failed to update question: %w", err)
	}

	return question, nil
}

// DeleteQuestion removes a question, its media object, and its reference
// in the owning level's question list.
func (s *QuestionService) DeleteQuestion(ctx context.Context, questionID string) error {
	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return ErrQuestionNotFound
	}

	s.cleanupImage(ctx, question.Image)

	if err := s.levels.PullQuestion(ctx, question.LevelID, question.ID); err != nil {
		return fmt.Errorf("failed to detach question from level: %w", err)
	}

	if err := s.questions.Delete(ctx, questionID); err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return nil
}

// GetAllLevels returns all levels ordered by ordinal.
func (s *QuestionService) GetAllLevels(ctx context.Context) ([]*model.Level, error) {
	return s.levels.GetAll(ctx)
}

// GetQuestionsByLevel returns every question under a level. A level with
// no questions, deleted or never created, yields an empty set.
func (s *QuestionService) GetQuestionsByLevel(ctx context.Context, levelID string) ([]*model.Question, error) {
	oid, err := primitive.ObjectIDFromHex(levelID)
	if err != nil {
		return nil, fmt.Errorf("invalid level id: %w", err)
	}
	return s.questions.GetByLevelID(ctx, oid)
}

// DeleteLevel cascades: every question under the level is deleted along
// with its media object, then the level itself.
func (s *QuestionService) DeleteLevel(ctx context.Context, levelID string) error {
	level, err := s.levels.GetByID(ctx, levelID)
	if err != nil {
		return fmt.Errorf("failed to get level: %w", err)
	}
	if level == nil {
		return ErrLevelNotFound
	}

	questions, err := s.questions.GetByLevelID(ctx, level.ID)
	if err != nil {
		return fmt.Errorf("failed to list level questions: %w", err)
	}
	for _, question := range questions {
		s.cleanupImage(ctx, question.Image)
	}

	if err := s.questions.DeleteByLevelID(ctx, level.ID); err != nil {
		return fmt.Errorf("failed to delete level questions: %w", err)
	}

	if err := s.levels.Delete(ctx, levelID); err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	return nil
}

// cleanupImage deletes a media object left behind by a failed or
// destructive operation. Cleanup failures are logged, never fatal.
func (s *QuestionService) cleanupImage(ctx context.Context, image *model.Image) {
	if image == nil || image.PublicID == "" {
		return
	}
	if err := s.media.Delete(ctx, image.PublicID); err != nil {
		log.Printf("Failed to delete image %s: %v", image.PublicID, err)
	}
}
