package service

import (
	"astrohunt/internal/cache"
	"astrohunt/internal/model"
	"astrohunt/internal/repository"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrLeaderOnly        = errors.New("only team leaders can submit a question code")
	ErrIncorrectCode     = errors.New("incorrect question code")
	ErrQuestionCompleted = errors.New("your team has already completed this question")
	ErrQuestionNotFound  = errors.New("question not found")
	ErrGameNotReady      = errors.New("no level with questions exists yet")
)

// GameService owns answer-code submission and team progression: score,
// completed questions, and level advancement.
type GameService struct {
	users       repository.UserRepo
	teams       repository.TeamRepo
	levels      repository.LevelRepo
	questions   repository.QuestionRepo
	leaderboard cache.LeaderboardCache
	broadcaster Broadcaster
}

// NewGameService creates a new game service
func NewGameService(
	users repository.UserRepo,
	teams repository.TeamRepo,
	levels repository.LevelRepo,
	questions repository.QuestionRepo,
	leaderboard cache.LeaderboardCache,
) *GameService {
	return &GameService{
		users:       users,
		teams:       teams,
		levels:      levels,
		questions:   questions,
		leaderboard: leaderboard,
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *GameService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SubmitQuestionCode checks the submitted answer code and, when correct,
// advances the caller's team. The role check reads the stored user, not
// the token claims, so a freshly promoted leader is honored.
func (s *GameService) SubmitQuestionCode(ctx context.Context, userID, questionID, questionCode string) (*model.Team, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.Role != model.RoleTeamLeader {
		return nil, ErrLeaderOnly
	}
	if user.TeamID == nil {
		return nil, ErrNotInTeam
	}

	question, err := s.questions.GetByID(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	if question.CorrectCode != questionCode {
		return nil, ErrIncorrectCode
	}

	team, err := s.teams.GetByID(ctx, user.TeamID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	if team == nil {
		return nil, ErrNotInTeam
	}
	for _, id := range team.CompletedQuestions {
		if id == question.ID {
			return nil, ErrQuestionCompleted
		}
	}

	if err := s.advanceTeam(ctx, team, question); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastToTeam(team.ID.Hex(), MsgScoreUpdate, map[string]interface{}{
			"teamName": team.Name,
			"score":    team.Score,
		})
		if team.CurrentQuestionID != nil {
			s.broadcaster.BroadcastToTeam(team.ID.Hex(), MsgQuestionAdvanced, map[string]interface{}{
				"questionId": team.CurrentQuestionID.Hex(),
				"level":      team.CurrLevel,
			})
		}
		s.broadcastLeaderboard(ctx)
	}

	return team, nil
}

// advanceTeam applies the progression rule: mark the question completed,
// add its points, and move the team to the next unanswered question,
// rolling over to the next level when the current one is exhausted.
func (s *GameService) advanceTeam(ctx context.Context, team *model.Team, question *model.Question) error {
	points := question.Points
	if points == 0 {
		points = model.DefaultQuestionPoints
	}

	now := time.Now()
	team.CompletedQuestions = append(team.CompletedQuestions, question.ID)
	team.Score += points
	team.LastProgressAt = now

	next, nextLevel, err := s.nextQuestion(ctx, team)
	if err != nil {
		return err
	}
	team.CurrentQuestionID = next
	if nextLevel != nil {
		team.CurrLevel = nextLevel
	}
	if next != nil {
		team.QuestionStartedAt = &now
	} else {
		team.QuestionStartedAt = nil
	}

	if err := s.teams.Update(ctx, team); err != nil {
		return fmt.Errorf("failed to update team: %w", err)
	}

	// The ZSET is a mirror, not the source of truth; a failed write only
	// leaves the live feed stale until the next update.
	if err := s.leaderboard.UpdateScore(ctx, team.ID.Hex(), team.Score); err != nil {
		log.Printf("Failed to mirror score for team %s: %v", team.ID.Hex(), err)
	}

	return nil
}

// nextQuestion finds the first unanswered question at the team's level,
// then walks higher levels in order. Returns (nil, nil) when the team has
// finished everything.
func (s *GameService) nextQuestion(ctx context.Context, team *model.Team) (*primitive.ObjectID, *int, error) {
	levels, err := s.levels.GetAll(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list levels: %w", err)
	}

	completed := make(map[primitive.ObjectID]bool, len(team.CompletedQuestions))
	for _, id := range team.CompletedQuestions {
		completed[id] = true
	}

	curr := 0
	if team.CurrLevel != nil {
		curr = *team.CurrLevel
	}

	for _, level := range levels {
		if level.Level < curr {
			continue
		}
		for _, qid := range level.QuestionIDs {
			if !completed[qid] {
				qid := qid
				ordinal := level.Level
				return &qid, &ordinal, nil
			}
		}
	}

	return nil, nil, nil
}

// StartGame assigns every active team without a level the first question
// of the lowest level. Admin-gated at the transport layer.
func (s *GameService) StartGame(ctx context.Context) (int, error) {
	levels, err := s.levels.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list levels: %w", err)
	}

	var first *model.Level
	for _, level := range levels {
		if len(level.QuestionIDs) > 0 {
			first = level
			break
		}
	}
	if first == nil {
		return 0, ErrGameNotReady
	}

	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list teams: %w", err)
	}

	now := time.Now()
	assigned := 0
	for _, team := range teams {
		if team.CurrLevel != nil || team.Blocked || team.Status != model.TeamStatusActive {
			continue
		}
		ordinal := first.Level
		qid := first.QuestionIDs[0]
		team.CurrLevel = &ordinal
		team.CurrentQuestionID = &qid
		team.QuestionStartedAt = &now

		if err := s.teams.Update(ctx, team); err != nil {
			return assigned, fmt.Errorf("failed to assign team %s: %w", team.ID.Hex(), err)
		}
		assigned++

		if s.broadcaster != nil {
			s.broadcaster.BroadcastToTeam(team.ID.Hex(), MsgGameStarted, map[string]interface{}{
				"level": ordinal,
			})
		}
	}

	return assigned, nil
}

func (s *GameService) broadcastLeaderboard(ctx context.Context) {
	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		log.Printf("Failed to load teams for leaderboard broadcast: %v", err)
		return
	}
	s.broadcaster.BroadcastToAll(MsgLeaderboardUpdate, rankTeams(teams))
}
