package models

type Result struct {
	ID     int  `json:"id" db:"id"`
	GameID *int `json:"game_id" db:"game_id"`
	TeamID *int `json:"team_id" db:"team_id"`
	Score  int  `json:"score" db:"score"`
	Points int  `json:"points" db:"points"`

	// Empty when the referenced game or team was deleted.
	GameName string `json:"game_name,omitempty" db:"-"`
	TeamName string `json:"team_name,omitempty" db:"-"`
}
