// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, login, identity-scoped queries,
// and issuing identity tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dpetrov/authkeeper/internal/common"
	"github.com/dpetrov/authkeeper/internal/dbx"
	"github.com/dpetrov/authkeeper/internal/logging"
	"github.com/dpetrov/authkeeper/internal/server/auth"
	"github.com/dpetrov/authkeeper/internal/server/config"
	"github.com/dpetrov/authkeeper/internal/server/models"
	"github.com/dpetrov/authkeeper/internal/server/repositories/repomanager"
)

// MinPasswordLength is the minimum accepted raw password length.
const MinPasswordLength = 6

// AuthPayload bundles a freshly issued token with the subject's public view.
type AuthPayload struct {
	Token string
	User  *models.PublicUser
}

// AuthService provides the user-facing auth operations:
//   - Register: create a user and issue a token
//   - Login: verify credentials and issue a token
//   - WhoAmI: resolve the calling identity to its user record
//   - Users / UserByUsername: identity-scoped read queries
type AuthService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	jwtSecret     []byte
	tokenValidity time.Duration
	logger        logging.Logger
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, logger logging.Logger) *AuthService {
	return &AuthService{
		db:            db,
		repomanager:   m,
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
		logger:        logger,
	}
}

// Register creates a new user and issues a token for it. The password length
// check runs before any store access; the user row and its "register" audit
// event are written in one transaction, so no partial state survives a
// failure. Duplicate username/email surfaces as common.ErrUserExists.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthPayload, error) {
	if len(password) < MinPasswordLength {
		return nil, common.ErrWeakPassword
	}

	var user *models.User
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, err := s.repomanager.Users(tx).Create(ctx, username, email, password)
		if err != nil {
			return err
		}
		if err := s.repomanager.Events(tx).Record(ctx, u.ID, models.EventRegister); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, common.ErrAlreadyExists):
			return nil, common.ErrUserExists
		case errors.Is(err, common.ErrInvalidInput):
			return nil, err
		default:
			s.logger.Error(ctx, "user creation failed", "error", err)
			return nil, common.ErrStoreUnavailable
		}
	}

	return s.issuePayload(ctx, user)
}

// Login verifies the email/password pair and issues a token on success.
// An unknown email and a wrong password produce the same
// common.ErrInvalidCredentials so callers cannot enumerate accounts.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthPayload, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrStoreUnavailable
	}

	if !repo.VerifyPassword(user, password) {
		return nil, common.ErrInvalidCredentials
	}

	// Best-effort audit record: a full event log must not block a login.
	if err := s.repomanager.Events(s.db).Record(ctx, user.ID, models.EventLogin); err != nil {
		s.logger.Warn(ctx, "login event not recorded", "error", err)
	}

	return s.issuePayload(ctx, user)
}

// WhoAmI resolves the calling identity to its stored user record.
// An anonymous context fails with common.ErrUnauthenticated; a valid token
// whose record has since disappeared fails with common.ErrUserNotFound.
func (s *AuthService) WhoAmI(ctx context.Context, authCtx auth.Context) (*models.PublicUser, error) {
	if !authCtx.Authenticated {
		return nil, common.ErrUnauthenticated
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, authCtx.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrStoreUnavailable
	}

	return user.Public(), nil
}

// Users returns the public views of all registered users.
func (s *AuthService) Users(ctx context.Context) ([]models.PublicUser, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		s.logger.Error(ctx, "user listing failed", "error", err)
		return nil, common.ErrStoreUnavailable
	}

	result := make([]models.PublicUser, 0, len(users))
	for i := range users {
		result = append(result, *users[i].Public())
	}
	return result, nil
}

// UserByUsername returns the public view of a single user.
func (s *AuthService) UserByUsername(ctx context.Context, username string) (*models.PublicUser, error) {
	user, err := s.repomanager.Users(s.db).GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrStoreUnavailable
	}

	return user.Public(), nil
}

func (s *AuthService) issuePayload(ctx context.Context, user *models.User) (*AuthPayload, error) {
	token, err := auth.GenerateToken(user.ID, user.Username, s.jwtSecret, s.tokenValidity)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return nil, common.ErrStoreUnavailable
	}
	return &AuthPayload{Token: token, User: user.Public()}, nil
}
