package results

import "time"

// TeamStanding is a team's running record across sessions.
type TeamStanding struct {
	TeamID      string    `json:"team_id"`
	TotalPoints int64     `json:"total_points"`
	GamesPlayed int       `json:"games_played"`
	GamesWon    int       `json:"games_won"`
	BestLevel   int       `json:"best_level"`
	UpdatedAt   time.Time `json:"updated_at"`
}
