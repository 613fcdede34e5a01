// Package users is the credential store adapter: it persists identity
// records and owns password hashing and comparison. Raw and hashed
// passwords never cross this package's boundary in any output.
package users

import (
	"context"

	"github.com/dpetrov/authkeeper/internal/server/models"
)

type Repository interface {
	// Create validates the fields, hashes rawPassword, and persists a new
	// user. Duplicate username or email yields common.ErrAlreadyExists,
	// empty fields or a malformed email common.ErrInvalidInput.
	Create(ctx context.Context, username, email, rawPassword string) (*models.User, error)

	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)

	// VerifyPassword reports whether candidate matches the user's stored
	// hash. It returns false on any mismatch and never errors.
	VerifyPassword(user *models.User, candidate string) bool
}
