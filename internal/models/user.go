package models

// User owns playlists. Authentication lives outside this module.
type User struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Email        string `json:"email" db:"email"`
	PasswordHash []byte `json:"-" db:"password_hash"`
}
