package model

// Identity is the authenticated user as stored in the local session:
// the minimal slice of the account the client needs between restarts.
type Identity struct {
	UserID      int64  `json:"user_id" db:"user_id"`
	Login       string `json:"login" db:"login"`
	Description string `json:"description" db:"description"`
}
