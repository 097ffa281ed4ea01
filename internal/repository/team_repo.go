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

// TeamRepo handles MongoDB operations for teams
type TeamRepo interface {
	Create(ctx context.Context, team *model.Team) (string, error)
	GetByID(ctx context.Context, id string) (*model.Team, error)
	GetByCode(ctx context.Context, code string) (*model.Team, error)
	GetByLeadID(ctx context.Context, leadID primitive.ObjectID) (*model.Team, error)
	GetAll(ctx context.Context) ([]*model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	AddMember(ctx context.Context, teamID, userID primitive.ObjectID) error
	CodeExists(ctx context.Context, code string) (bool, error)
	EnsureIndexes(ctx context.Context) error
}

type teamRepo struct {
	collection *mongo.Collection
}

// NewTeamRepo creates a new team repository
func NewTeamRepo(db *mongo.Database) TeamRepo {
	return &teamRepo{
		collection: db.Collection("teams"),
	}
}

func (r *teamRepo) Create(ctx context.Context, team *model.Team) (string, error) {
	team.CreatedAt = time.Now()
	team.LastProgressAt = team.CreatedAt

	result, err := r.collection.InsertOne(ctx, team)
	if err != nil {
		return "", err
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", nil
	}
	team.ID = oid
	return oid.Hex(), nil
}

func (r *teamRepo) GetByID(ctx context.Context, id string) (*model.Team, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *teamRepo) GetByCode(ctx context.Context, code string) (*model.Team, error) {
	return r.findOne(ctx, bson.M{"code": code})
}

func (r *teamRepo) GetByLeadID(ctx context.Context, leadID primitive.ObjectID) (*model.Team, error) {
	return r.findOne(ctx, bson.M{"teamLead": leadID})
}

func (r *teamRepo) findOne(ctx context.Context, filter bson.M) (*model.Team, error) {
	var team model.Team
	err := r.collection.FindOne(ctx, filter).Decode(&team)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) GetAll(ctx context.Context) ([]*model.Team, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var teams []*model.Team
	if err := cursor.All(ctx, &teams); err != nil {
		return nil, err
	}
	return teams, nil
}

func (r *teamRepo) Update(ctx context.Context, team *model.Team) error {
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": team.ID}, team)
	return err
}

func (r *teamRepo) AddMember(ctx context.Context, teamID, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": teamID}, bson.M{
		"$push": bson.M{"members": userID},
	})
	return err
}

func (r *teamRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *teamRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
