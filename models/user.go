package models

type User struct {
	ID           int     `json:"id"`
	Handle       string  `json:"handle"`
	Email        *string `json:"email,omitempty"`
	PasswordHash string  `json:"-"`
	IsAdmin      bool    `json:"is_admin"`
}

// Identity is the authenticated caller derived from the session cookie.
type Identity struct {
	UserID  int    `json:"user_id"`
	Handle  string `json:"handle"`
	IsAdmin bool   `json:"is_admin"`
}
