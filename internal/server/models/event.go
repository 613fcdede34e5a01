package models

import "time"

// Auth event kinds recorded in the audit log.
const (
	EventRegister = "register"
	EventLogin    = "login"
)

// AuthEvent is one row of the append-only auth audit log.
type AuthEvent struct {
	ID        int64
	UserID    string
	Kind      string
	CreatedAt time.Time
}
