package service

import (
	"astrohunt/internal/model"
	"astrohunt/internal/repository"
	"context"
	"errors"
	"fmt"
	"sort"
)

var ErrNoTeams = errors.New("no teams have been created in the game yet")

// LeaderboardService ranks all teams by score.
type LeaderboardService struct {
	teams repository.TeamRepo
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(teams repository.TeamRepo) *LeaderboardService {
	return &LeaderboardService{teams: teams}
}

// GetLeaderboard returns every team ranked by descending score.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context) ([]model.LeaderboardEntry, error) {
	teams, err := s.teams.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, ErrNoTeams
	}

	return rankTeams(teams), nil
}

// rankTeams orders teams by descending score, ties broken by fewer
// completed questions, then by earlier last progress.
func rankTeams(teams []*model.Team) []model.LeaderboardEntry {
	sorted := make([]*model.Team, len(teams))
	copy(sorted, teams)

	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if len(a.CompletedQuestions) != len(b.CompletedQuestions) {
			return len(a.CompletedQuestions) < len(b.CompletedQuestions)
		}
		return a.LastProgressAt.Before(b.LastProgressAt)
	})

	entries := make([]model.LeaderboardEntry, len(sorted))
	for i, team := range sorted {
		completed := make([]string, len(team.CompletedQuestions))
		for j, id := range team.CompletedQuestions {
			completed[j] = id.Hex()
		}
		entries[i] = model.LeaderboardEntry{
			Rank:               i + 1,
			TeamName:           team.Name,
			CurrLevel:          team.CurrLevel,
			Score:              team.Score,
			CompletedQuestions: completed,
		}
	}
	return entries
}
