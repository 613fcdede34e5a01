package models

import "time"

// User is the stored identity record. PasswordHash carries the bcrypt digest
// (salt embedded) and must never leave the repository/service layer.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PublicUser is the only user shape exposed to transport. It deliberately
// has no password field, so the hash cannot leak through serialization.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the caller-visible view of the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
