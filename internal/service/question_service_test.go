package service

import (
	"astrohunt/internal/model"
	"context"
	"errors"
	"strings"
	"testing"
)

type questionFixture struct {
	svc       *QuestionService
	levels    *fakeLevelRepo
	questions *fakeQuestionRepo
	media     *fakeMediaStore
}

func newQuestionFixture() *questionFixture {
	levels := newFakeLevelRepo()
	questions := newFakeQuestionRepo()
	media := newFakeMediaStore()
	return &questionFixture{
		svc:       NewQuestionService(levels, questions, media),
		levels:    levels,
		questions: questions,
		media:     media,
	}
}

func upload(name string) *ImageUpload {
	return &ImageUpload{
		Reader:      strings.NewReader("not actually a png"),
		Size:        18,
		ContentType: "image/png",
		Filename:    name,
	}
}

func TestAddLevel(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	level, err := f.svc.AddLevel(ctx, 1)
	if err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	if level.Level != 1 {
		t.Errorf("unexpected ordinal %d", level.Level)
	}

	if _, err := f.svc.AddLevel(ctx, 1); !errors.Is(err, ErrLevelExists) {
		t.Fatalf("expected ErrLevelExists, got %v", err)
	}
}

func TestAddQuestion(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	if _, err := f.svc.AddLevel(ctx, 1); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}

	question, err := f.svc.AddQuestion(ctx, AddQuestionInput{
		LevelNumber: 1,
		Title:       "Find the plaque",
		Description: "Somewhere near the library",
		Hints:       []string{"look up", "it is bronze"},
		CorrectCode: "XJ9",
		Image:       upload("plaque.png"),
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	if question.Points != model.DefaultQuestionPoints {
		t.Errorf("expected default points, got %d", question.Points)
	}
	for i, hint := range question.Hints {
		if hint.Flag {
			t.Errorf("hint %d created unlocked", i)
		}
		if hint.UnlockTime != model.DefaultHintUnlockMinutes {
			t.Errorf("hint %d unlock delay %d", i, hint.UnlockTime)
		}
	}
	if question.Image == nil || question.Image.URL == "" {
		t.Fatal("expected an uploaded image on the question")
	}
	if !f.media.objects[question.Image.PublicID] {
		t.Error("uploaded object missing from the media store")
	}

	level, _ := f.levels.GetByNumber(ctx, 1)
	if len(level.QuestionIDs) != 1 || level.QuestionIDs[0] != question.ID {
		t.Error("question not linked to its level")
	}
}

func TestAddQuestionValidation(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	if _, err := f.svc.AddLevel(ctx, 1); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}

	_, err := f.svc.AddQuestion(ctx, AddQuestionInput{LevelNumber: 7, Title: "x", Hints: []string{"h"}, CorrectCode: "c"})
	if !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("unknown level: expected ErrLevelNotFound, got %v", err)
	}

	_, err = f.svc.AddQuestion(ctx, AddQuestionInput{LevelNumber: 1, Title: "x", CorrectCode: "c"})
	if !errors.Is(err, ErrNoHints) {
		t.Errorf("no hints: expected ErrNoHints, got %v", err)
	}
}

func TestAddQuestionCleansUpImageOnPersistFailure(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	if _, err := f.svc.AddLevel(ctx, 1); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	f.questions.failCreate = true

	_, err := f.svc.AddQuestion(ctx, AddQuestionInput{
		LevelNumber: 1,
		Title:       "Find the plaque",
		Hints:       []string{"look up"},
		CorrectCode: "XJ9",
		Image:       upload("plaque.png"),
	})
	if err == nil {
		t.Fatal("expected persistence failure")
	}
	if f.media.uploads != 1 {
		t.Fatalf("expected one upload, got %d", f.media.uploads)
	}
	if len(f.media.deletes) != 1 {
		t.Fatalf("expected the orphaned object deleted, got %v", f.media.deletes)
	}
	if len(f.media.objects) != 0 {
		t.Error("orphaned object still present on the media store")
	}
}

func TestModifyQuestion(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	if _, err := f.svc.AddLevel(ctx, 1); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	question, err := f.svc.AddQuestion(ctx, AddQuestionInput{
		LevelNumber: 1,
		Title:       "Find the plaque",
		Hints:       []string{"look up"},
		CorrectCode: "XJ9",
		Image:       upload("plaque.png"),
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}
	oldObject := question.Image.PublicID

	title := "Find the bronze plaque"
	points := 25
	updated, err := f.svc.ModifyQuestion(ctx, question.ID.Hex(), ModifyQuestionInput{
		Title:  &title,
		Points: &points,
		Hints:  []string{"new hint"},
	}, true, upload("plaque-v2.png"))
	if err != nil {
		t.Fatalf("ModifyQuestion: %v", err)
	}

	if updated.Title != title || updated.Points != points {
		t.Error("scalar fields not applied")
	}
	if updated.CorrectCode != "XJ9" {
		t.Error("untouched field was changed")
	}
	if len(updated.Hints) != 1 || updated.Hints[0].Text != "new hint" {
		t.Errorf("hints not replaced: %+v", updated.Hints)
	}
	if updated.Image.PublicID == oldObject {
		t.Error("image was not replaced")
	}
	if f.media.objects[oldObject] {
		t.Error("previous image object not deleted")
	}
	if !f.media.objects[updated.Image.PublicID] {
		t.Error("new image object missing from the media store")
	}
}

func TestModifyQuestionRelinksLevel(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	if _, err := f.svc.AddLevel(ctx, 1); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	if _, err := f.svc.AddLevel(ctx, 2); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	question, err := f.svc.AddQuestion(ctx, AddQuestionInput{
		LevelNumber: 1,
		Title:       "Find the plaque",
		Hints:       []string{"look up"},
		CorrectCode: "XJ9",
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	target := 2
	updated, err := f.svc.ModifyQuestion(ctx, question.ID.Hex(), ModifyQuestionInput{LevelNumber: &target}, false, nil)
	if err != nil {
		t.Fatalf("ModifyQuestion: %v", err)
	}

	from, _ := f.levels.GetByNumber(ctx, 1)
	to, _ := f.levels.GetByNumber(ctx, 2)
	if len(from.QuestionIDs) != 0 {
		t.Error("question still linked to the old level")
	}
	if len(to.QuestionIDs) != 1 || to.QuestionIDs[0] != question.ID {
		t.Error("question not linked to the new level")
	}
	if updated.LevelID != to.ID {
		t.Error("question level reference not updated")
	}
}

func TestModifyQuestionNotFound(t *testing.T) {
	f := newQuestionFixture()

	_, err := f.svc.ModifyQuestion(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaa", ModifyQuestionInput{}, false, nil)
	if !errors.Is(err, ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}
}

func TestDeleteQuestion(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	if _, err := f.svc.AddLevel(ctx, 1); err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	question, err := f.svc.AddQuestion(ctx, AddQuestionInput{
		LevelNumber: 1,
		Title:       "Find the plaque",
		Hints:       []string{"look up"},
		CorrectCode: "XJ9",
		Image:       upload("plaque.png"),
	})
	if err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	if err := f.svc.DeleteQuestion(ctx, question.ID.Hex()); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}

	stored, _ := f.questions.GetByID(ctx, question.ID.Hex())
	if stored != nil {
		t.Error("question still stored after delete")
	}
	level, _ := f.levels.GetByNumber(ctx, 1)
	if len(level.QuestionIDs) != 0 {
		t.Error("question still linked to its level")
	}
	if f.media.objects[question.Image.PublicID] {
		t.Error("image object not deleted")
	}

	if err := f.svc.DeleteQuestion(ctx, question.ID.Hex()); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("expected ErrQuestionNotFound on the second delete, got %v", err)
	}
}

func TestDeleteLevelCascades(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	level, err := f.svc.AddLevel(ctx, 1)
	if err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	for _, title := range []string{"first", "second"} {
		if _, err := f.svc.AddQuestion(ctx, AddQuestionInput{
			LevelNumber: 1,
			Title:       title,
			Hints:       []string{"h"},
			CorrectCode: "c-" + title,
			Image:       upload(title + ".png"),
		}); err != nil {
			t.Fatalf("AddQuestion %s: %v", title, err)
		}
	}

	if err := f.svc.DeleteLevel(ctx, level.ID.Hex()); err != nil {
		t.Fatalf("DeleteLevel: %v", err)
	}

	if stored, _ := f.levels.GetByID(ctx, level.ID.Hex()); stored != nil {
		t.Error("level still stored after delete")
	}
	if remaining, _ := f.questions.GetByLevelID(ctx, level.ID); len(remaining) != 0 {
		t.Errorf("expected the level's questions deleted, %d remain", len(remaining))
	}
	if len(f.media.objects) != 0 {
		t.Errorf("expected every image object deleted, %d remain", len(f.media.objects))
	}

	if err := f.svc.DeleteLevel(ctx, level.ID.Hex()); !errors.Is(err, ErrLevelNotFound) {
		t.Errorf("expected ErrLevelNotFound on the second delete, got %v", err)
	}
}

func TestGetQuestionsByLevelUnknownLevel(t *testing.T) {
	f := newQuestionFixture()

	questions, err := f.svc.GetQuestionsByLevel(context.Background(), "aaaaaaaaaaaaaaaaaaaaaaaa")
	if err != nil {
		t.Fatalf("GetQuestionsByLevel: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("expected an empty set for an unknown level, got %d questions", len(questions))
	}
}

func TestGetQuestionsByLevelAfterDelete(t *testing.T) {
	f := newQuestionFixture()
	ctx := context.Background()

	level, err := f.svc.AddLevel(ctx, 1)
	if err != nil {
		t.Fatalf("AddLevel: %v", err)
	}
	if _, err := f.svc.AddQuestion(ctx, AddQuestionInput{
		LevelNumber: 1,
		Title:       "Find the plaque",
		Hints:       []string{"look up"},
		CorrectCode: "XJ9",
	}); err != nil {
		t.Fatalf("AddQuestion: %v", err)
	}

	if err := f.svc.DeleteLevel(ctx, level.ID.Hex()); err != nil {
		t.Fatalf("DeleteLevel: %v", err)
	}

	questions, err := f.svc.GetQuestionsByLevel(ctx, level.ID.Hex())
	if err != nil {
		t.Fatalf("GetQuestionsByLevel: %v", err)
	}
	if len(questions) != 0 {
		t.Errorf("expected an empty set after deleting the level, got %d questions", len(questions))
	}
}
