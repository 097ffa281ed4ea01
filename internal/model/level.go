package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Level is an ordered stage of the game. The ordinal is unique.
type Level struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Level       int                  `json:"level" bson:"level"`
	QuestionIDs []primitive.ObjectID `json:"questions" bson:"questions"`
	CreatedAt   time.Time            `json:"createdAt" bson:"createdAt"`
}
