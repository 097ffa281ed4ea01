package service

import (
	"astrohunt/internal/model"
	"astrohunt/internal/repository"
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrAlreadyInTeam   = errors.New("you are already in a team")
	ErrNotATeamLeader  = errors.New("you are not a team leader of any team")
	ErrMissingCode     = errors.New("team code is required")
	ErrInvalidCode     = errors.New("invalid team code")
	ErrTeamFull        = errors.New("team is full")
	ErrNotInTeam       = errors.New("you are not in any team")
	ErrNoLevelAssigned = errors.New("your team has not been assigned a question yet")
	ErrUserNotFound    = errors.New("user not found")
)

// TeamService handles team creation, join codes and the current question
type TeamService struct {
	users     repository.UserRepo
	teams     repository.TeamRepo
	questions repository.QuestionRepo
}

// NewTeamService creates a new team service
func NewTeamService(
	users repository.UserRepo,
	teams repository.TeamRepo,
	questions repository.QuestionRepo,
) *TeamService {
	return &TeamService{
		users:     users,
		teams:     teams,
		questions: questions,
	}
}

// CreateTeam creates a team with the caller as lead and sole member, and
// promotes the caller to team_leader.
func (s *TeamService) CreateTeam(ctx context.Context, userID, teamName string) (*model.Team, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.TeamID != nil {
		return nil, ErrAlreadyInTeam
	}

	code, err := s.generateTeamCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate team code: %w", err)
	}

	team := &model.Team{
		Name:               teamName,
		LeadID:             user.ID,
		MemberIDs:          []primitive.ObjectID{user.ID},
		Score:              0,
		CompletedQuestions: []primitive.ObjectID{},
		Status:             model.TeamStatusActive,
		Code:               code,
	}

	if _, err := s.teams.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	if err := s.users.SetTeam(ctx, userID, team.ID, model.RoleTeamLeader); err != nil {
		return nil, fmt.Errorf("failed to link user to team: %w", err)
	}

	return team, nil
}

// GetTeamCodeForLeader returns the join code of the team the caller leads.
func (s *TeamService) GetTeamCodeForLeader(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	team, err := s.teams.GetByLeadID(ctx, user.ID)
	if err != nil {
		return "", fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return "", ErrNotATeamLeader
	}

	return team.Code, nil
}

// JoinTeam adds the caller to the team matching the join code.
func (s *TeamService) JoinTeam(ctx context.Context, userID, teamCode string) error {
	if teamCode == "" {
		return ErrMissingCode
	}

	team, err := s.teams.GetByCode(ctx, teamCode)
	if err != nil {
		return fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return ErrInvalidCode
	}
	if len(team.MemberIDs) >= model.MaxTeamMembers {
		return ErrTeamFull
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.TeamID != nil {
		return ErrAlreadyInTeam
	}

	if err := s.users.SetTeam(ctx, userID, team.ID, user.Role); err != nil {
		return fmt.Errorf("failed to link user to team: %w", err)
	}
	if err := s.teams.AddMember(ctx, team.ID, user.ID); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// GetCurrentQuestion resolves the caller's team and returns its current
// question as a player-facing view.
func (s *TeamService) GetCurrentQuestion(ctx context.Context, userID string) (*model.QuestionView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.TeamID == nil {
		return nil, ErrNotInTeam
	}

	team, err := s.teams.GetByID(ctx, user.TeamID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, ErrNotInTeam
	}
	if team.CurrLevel == nil {
		return nil, ErrNoLevelAssigned
	}
	// A team that finished the last level keeps its level ordinal but has
	// no current question.
	if team.CurrentQuestionID == nil {
		return nil, ErrQuestionNotFound
	}

	question, err := s.questions.GetByID(ctx, team.CurrentQuestionID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	return question.View(time.Now(), team.QuestionStartedAt), nil
}

// generateTeamCode creates an 8-char alphanumeric join code, retrying on
// the unlikely collision. The unique index on the code field is the
// backstop for concurrent creates.
func (s *TeamService) generateTeamCode(ctx context.Context) (string, error) {
	const chars = "abcdefghjklmnpqrstuvwxyz23456789"
	const codeLen = 8

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}

		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		codeStr := string(code)

		exists, err := s.teams.CodeExists(ctx, codeStr)
		if err != nil {
			return "", err
		}
		if !exists {
			return codeStr, nil
		}
	}

	return "", errors.New("could not generate a unique team code")
}
