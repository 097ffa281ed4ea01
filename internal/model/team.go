package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTeamMembers caps team size, lead included.
const MaxTeamMembers = 3

type TeamStatus string

const (
	TeamStatusActive TeamStatus = "active"
)

// Team groups players behind a shared join code. CurrLevel is the level
// ordinal the team is playing (nil until the admin starts the game).
type Team struct {
	ID                 primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Name               string               `json:"teamName" bson:"teamName"`
	LeadID             primitive.ObjectID   `json:"teamLead" bson:"teamLead"`
	MemberIDs          []primitive.ObjectID `json:"members" bson:"members"`
	CurrLevel          *int                 `json:"currLevel" bson:"currLevel"`
	CurrentQuestionID  *primitive.ObjectID  `json:"currentQuestion" bson:"currentQuestion"`
	Score              int                  `json:"score" bson:"score"`
	CompletedQuestions []primitive.ObjectID `json:"completedQuestions" bson:"completedQuestions"`
	Status             TeamStatus           `json:"status" bson:"status"`
	Blocked            bool                 `json:"blocked" bson:"blocked"`
	Code               string               `json:"-" bson:"code"`
	QuestionStartedAt  *time.Time           `json:"-" bson:"questionStartedAt"`
	LastProgressAt     time.Time            `json:"-" bson:"lastProgressAt"`
	CreatedAt          time.Time            `json:"createdAt" bson:"createdAt"`
}

// HasMember reports whether the user is already on the team.
func (t *Team) HasMember(userID primitive.ObjectID) bool {
	for _, id := range t.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
