package models

type Team struct {
	ID        int    `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	Player1ID *int   `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID *int   `json:"player2_id,omitempty" db:"player2_id"`

	// Handles are filled by joins and stay empty for dangling player ids.
	Player1Handle string `json:"player1_handle,omitempty" db:"-"`
	Player2Handle string `json:"player2_handle,omitempty" db:"-"`
}
