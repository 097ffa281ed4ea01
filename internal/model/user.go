package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role is a closed set; the only runtime transition is
// player -> team_leader when a user creates a team.
type Role string

const (
	RolePlayer     Role = "player"
	RoleTeamLeader Role = "team_leader"
	RoleAdmin      Role = "admin"
)

// User is a registered account. A user belongs to zero or one team.
type User struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Email        string              `json:"email" bson:"email"`
	PasswordHash string              `json:"-" bson:"passwordHash"`
	Role         Role                `json:"role" bson:"role"`
	TeamID       *primitive.ObjectID `json:"team,omitempty" bson:"team,omitempty"`
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
}
