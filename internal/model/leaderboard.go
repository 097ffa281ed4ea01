package model

// LeaderboardEntry is one ranked row of the player leaderboard.
type LeaderboardEntry struct {
	Rank               int      `json:"rank"`
	TeamName           string   `json:"teamName"`
	CurrLevel          *int     `json:"currLevel"`
	Score              int      `json:"score"`
	CompletedQuestions []string `json:"completedQuestions"`
}
