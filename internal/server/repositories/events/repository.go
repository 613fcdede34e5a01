// Package events persists the append-only auth audit log.
package events

import (
	"context"

	"github.com/dpetrov/authkeeper/internal/server/models"
)

type Repository interface {
	// Record appends one auth event for the user.
	Record(ctx context.Context, userID, kind string) error

	// ListByUser returns the user's events, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.AuthEvent, error)
}
