package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultHintUnlockMinutes is how long a hint stays locked after a team
// first sees its question.
const DefaultHintUnlockMinutes = 5

// DefaultQuestionPoints is awarded for a correct submission unless the
// question overrides it.
const DefaultQuestionPoints = 10

// Hint is a progressively unlockable clue. UnlockTime is in minutes.
type Hint struct {
	Text       string `json:"text" bson:"text"`
	Flag       bool   `json:"flag" bson:"flag"`
	UnlockTime int    `json:"unlockTime" bson:"unlockTime"`
}

// Image describes an uploaded question image on the media host.
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
	Alt      string `json:"alt" bson:"alt"`
}

// Question belongs to exactly one level. CorrectCode is the secret answer
// token and is never serialized.
type Question struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	LevelID     primitive.ObjectID `json:"level" bson:"level"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	Hints       []Hint             `json:"hints" bson:"hints"`
	CorrectCode string             `json:"-" bson:"correctCode"`
	Points      int                `json:"points" bson:"points"`
	Image       *Image             `json:"image,omitempty" bson:"image,omitempty"`
	CreatedBy   primitive.ObjectID `json:"-" bson:"createdBy"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// QuestionView is the player-facing projection of a question. It carries
// neither the correct code nor the creator, and hint text stays hidden
// until the hint unlocks.
type QuestionView struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Hints       []Hint `json:"hints"`
	Image       *Image `json:"image,omitempty"`
}

// View builds the player projection. startedAt is when the team first saw
// the question; locked hints keep Flag=false and empty text.
func (q *Question) View(now time.Time, startedAt *time.Time) *QuestionView {
	hints := make([]Hint, len(q.Hints))
	for i, h := range q.Hints {
		unlocked := false
		if startedAt != nil {
			unlocked = now.Sub(*startedAt) >= time.Duration(h.UnlockTime)*time.Minute
		}
		if unlocked {
			hints[i] = Hint{Text: h.Text, Flag: true, UnlockTime: h.UnlockTime}
		} else {
			hints[i] = Hint{Flag: false, UnlockTime: h.UnlockTime}
		}
	}
	return &QuestionView{
		ID:          q.ID.Hex(),
		Title:       q.Title,
		Description: q.Description,
		Hints:       hints,
		Image:       q.Image,
	}
}
