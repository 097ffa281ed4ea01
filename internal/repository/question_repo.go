package repository

import (
	"astrohunt/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuestionRepo handles MongoDB operations for questions
type QuestionRepo interface {
	Create(ctx context.Context, question *model.Question) (string, error)
	GetByID(ctx context.Context, id string) (*model.Question, error)
	GetByLevelID(ctx context.Context, levelID primitive.ObjectID) ([]*model.Question, error)
	Update(ctx context.Context, question *model.Question) error
	Delete(ctx context.Context, id string) error
	DeleteByLevelID(ctx context.Context, levelID primitive.ObjectID) error
}

type questionRepo struct {
	collection *mongo.Collection
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *mongo.Database) QuestionRepo {
	return &questionRepo{
		collection: db.Collection("questions"),
	}
}

func (r *questionRepo) Create(ctx context.Context, question *model.Question) (string, error) {
	question.CreatedAt = time.Now()
	question.UpdatedAt = question.CreatedAt

	result, err := r.collection.InsertOne(ctx, question)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	question.ID = oid
	return oid.Hex(), nil
}

func (r *questionRepo) GetByID(ctx context.Context, id string) (*model.Question, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var question model.Question
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&question)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *questionRepo) GetByLevelID(ctx context.Context, levelID primitive.ObjectID) ([]*model.Question, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"level": levelID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var questions []*model.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *questionRepo) Update(ctx context.Context, question *model.Question) error {
	question.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": question.ID}, question)
	return err
}

func (r *questionRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *questionRepo) DeleteByLevelID(ctx context.Context, levelID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"level": levelID})
	return err
}
