package models

type Game struct {
	ID          int     `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description string  `json:"description" db:"description"`
	Image       *string `json:"image,omitempty" db:"image"`
	OrderIndex  int     `json:"order_index" db:"order_index"`
}

type Vote struct {
	ID     int `json:"id" db:"id"`
	UserID int `json:"user_id" db:"user_id"`
	GameID int `json:"game_id" db:"game_id"`
}

// VoteState is what the voting page shows for one user.
type VoteState struct {
	Games      []Game `json:"games"`
	UserVotes  []int  `json:"user_votes"`
	VotesCount int    `json:"votes_count"`
	MaxVotes   int    `json:"max_votes"`
}

func (s VoteState) HasVoted(gameID int) bool {
	for _, id := range s.UserVotes {
		if id == gameID {
			return true
		}
	}
	return false
}

func (s VoteState) Remaining() int {
	if s.VotesCount >= s.MaxVotes {
		return 0
	}
	return s.MaxVotes - s.VotesCount
}
