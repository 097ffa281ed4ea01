package repository

import (
	"astrohunt/internal/model"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LevelRepo handles MongoDB operations for levels
type LevelRepo interface {
	Create(ctx context.Context, level *model.Level) (string, error)
	GetByID(ctx context.Context, id string) (*model.Level, error)
	GetByNumber(ctx context.Context, number int) (*model.Level, error)
	GetAll(ctx context.Context) ([]*model.Level, error)
	PushQuestion(ctx context.Context, levelID, questionID primitive.ObjectID) error
	PullQuestion(ctx context.Context, levelID, questionID primitive.ObjectID) error
	Delete(ctx context.Context, id string) error
	EnsureIndexes(ctx context.Context) error
}

type levelRepo struct {
	collection *mongo.Collection
}

// NewLevelRepo creates a new level repository
func NewLevelRepo(db *mongo.Database) LevelRepo {
	return &levelRepo{
		collection: db.Collection("levels"),
	}
}

func (r *levelRepo) Create(ctx context.Context, level *model.Level) (string, error) {
	level.CreatedAt = time.Now()
	if level.QuestionIDs == nil {
		level.QuestionIDs = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, level)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	level.ID = oid
	return oid.Hex(), nil
}

func (r *levelRepo) GetByID(ctx context.Context, id string) (*model.Level, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}

	var level model.Level
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&level)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

func (r *levelRepo) GetByNumber(ctx context.Context, number int) (*model.Level, error) {
	var level model.Level
	err := r.collection.FindOne(ctx, bson.M{"level": number}).Decode(&level)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// GetAll returns every level ordered by ascending ordinal.
func (r *levelRepo) GetAll(ctx context.Context) ([]*model.Level, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "level", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var levels []*model.Level
	if err := cursor.All(ctx, &levels); err != nil {
		return nil, err
	}
	return levels, nil
}

func (r *levelRepo) PushQuestion(ctx context.Context, levelID, questionID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": levelID}, bson.M{
		"$push": bson.M{"questions": questionID},
	})
	return err
}

func (r *levelRepo) PullQuestion(ctx context.Context, levelID, questionID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": levelID}, bson.M{
		"$pull": bson.M{"questions": questionID},
	})
	return err
}

func (r *levelRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}

	_, err = r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func (r *levelRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "level", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
