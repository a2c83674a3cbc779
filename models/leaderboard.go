package models

// GameStanding is a game together with the number of votes it received.
type GameStanding struct {
	Game
	VotesCount int `json:"votes_count"`
}

type TeamStanding struct {
	TeamID      int    `json:"team_id"`
	Name        string `json:"name"`
	TotalPoints int    `json:"total_points"`
}

type Overview struct {
	Games       []GameStanding `json:"games"`
	Leaderboard []TeamStanding `json:"leaderboard"`
}
