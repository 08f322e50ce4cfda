package models

// User represents a staff account in the system.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username" validate:"required"`
	PasswordHash string `db:"password_hash" json:"-"` // Never expose this to the client
	IsAdmin      bool   `db:"is_admin" json:"isAdmin"`
}

// Principal is the authenticated identity attached to a request after
// the session cookie has been resolved against the usuarios table.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"isAdmin"`
}
