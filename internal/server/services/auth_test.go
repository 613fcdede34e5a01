package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/dpetrov/authkeeper/internal/common"
	"github.com/dpetrov/authkeeper/internal/dbx"
	"github.com/dpetrov/authkeeper/internal/logging"
	"github.com/dpetrov/authkeeper/internal/server/auth"
	"github.com/dpetrov/authkeeper/internal/server/config"
	"github.com/dpetrov/authkeeper/internal/server/models"
	eventsrepo "github.com/dpetrov/authkeeper/internal/server/repositories/events"
	usersrepo "github.com/dpetrov/authkeeper/internal/server/repositories/users"
)

// --- helpers ---

const testSecret = "test-secret"

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newAuthService(t *testing.T, db *sql.DB, rm *fakeRepoManager) *AuthService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: time.Hour,
	}
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewAuthService(db, rm, cfg, logger)
}

type fakeUsersRepo struct {
	createOut    *models.User
	createErr    error
	createCalled bool

	getOut *models.User
	getErr error

	listOut []models.User
	listErr error

	goodPassword string
}

func (f *fakeUsersRepo) Create(ctx context.Context, username, email, rawPassword string) (*models.User, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.get()
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.get()
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.get()
}

func (f *fakeUsersRepo) get() (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) List(ctx context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeUsersRepo) VerifyPassword(user *models.User, candidate string) bool {
	return candidate == f.goodPassword
}

type fakeEventsRepo struct {
	recordErr error
	recorded  []string
}

func (f *fakeEventsRepo) Record(ctx context.Context, userID, kind string) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.recorded = append(f.recorded, kind)
	return nil
}

func (f *fakeEventsRepo) ListByUser(ctx context.Context, userID string) ([]models.AuthEvent, error) {
	return nil, nil
}

type fakeRepoManager struct {
	users  *fakeUsersRepo
	events *fakeEventsRepo
}

func (f *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (f *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return f.users }

func (f *fakeRepoManager) Events(db dbx.DBTX) eventsrepo.Repository { return f.events }

func testUser() *models.User {
	return &models.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$irrelevant",
	}
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectCommit()

	rm := &fakeRepoManager{users: &fakeUsersRepo{createOut: testUser()}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	payload, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	claims, err := auth.ParseToken(payload.Token, []byte(testSecret))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if payload.User.ID != "u-1" || payload.User.Email != "alice@example.com" {
		t.Fatalf("unexpected public user: %+v", payload.User)
	}
	if got := rm.events.recorded; len(got) != 1 || got[0] != models.EventRegister {
		t.Fatalf("expected one register event, got %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
}

func TestRegister_WeakPassword_NoStoreAccess(t *testing.T) {
	db, mock := newSQLMockDB(t)
	// no Begin expected: validation must run before any store access

	rm := &fakeRepoManager{users: &fakeUsersRepo{createOut: testUser()}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "short")
	if !errors.Is(err, common.ErrWeakPassword) {
		t.Fatalf("want common.ErrWeakPassword, got %v", err)
	}
	if rm.users.createCalled {
		t.Fatalf("store create must not be invoked for a weak password")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{users: &fakeUsersRepo{createErr: common.ErrAlreadyExists}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if !errors.Is(err, common.ErrUserExists) {
		t.Fatalf("want common.ErrUserExists, got %v", err)
	}
}

func TestRegister_InvalidInputPassesThrough(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	createErr := common.ErrInvalidInput
	rm := &fakeRepoManager{users: &fakeUsersRepo{createErr: createErr}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "not-an-email", "secret1")
	if !errors.Is(err, common.ErrInvalidInput) {
		t.Fatalf("want common.ErrInvalidInput, got %v", err)
	}
}

func TestRegister_StoreFailureIsOpaque(t *testing.T) {
	db, mock := newSQLMockDB(t)
	mock.ExpectBegin()
	mock.ExpectRollback()

	rm := &fakeRepoManager{users: &fakeUsersRepo{createErr: errors.New("pq: connection refused")}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "secret1")
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want common.ErrStoreUnavailable, got %v", err)
	}
	if want := common.ErrStoreUnavailable.Error(); err.Error() != want {
		t.Fatalf("driver details leaked into caller-visible error: %q", err.Error())
	}
}

// --- Login ---

func TestLogin_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	db, _ := newSQLMockDB(t)

	// unknown email
	rm1 := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrNotFound}, events: &fakeEventsRepo{}}
	_, err1 := newAuthService(t, db, rm1).Login(context.Background(), "noone@x.com", "whatever")

	// wrong password
	rm2 := &fakeRepoManager{users: &fakeUsersRepo{getOut: testUser(), goodPassword: "right"}, events: &fakeEventsRepo{}}
	_, err2 := newAuthService(t, db, rm2).Login(context.Background(), "alice@example.com", "wrongpass")

	if !errors.Is(err1, common.ErrInvalidCredentials) || !errors.Is(err2, common.ErrInvalidCredentials) {
		t.Fatalf("want common.ErrInvalidCredentials for both, got %v / %v", err1, err2)
	}
	if err1.Error() != err2.Error() {
		t.Fatalf("errors must not be distinguishable: %q vs %q", err1.Error(), err2.Error())
	}
}

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getOut: testUser(), goodPassword: "right"}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	payload, err := s.Login(context.Background(), "alice@example.com", "right")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	claims, err := auth.ParseToken(payload.Token, []byte(testSecret))
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.UserID != "u-1" || claims.Username != "alice" {
		t.Fatalf("token identity mismatch: %+v", claims)
	}
	if got := rm.events.recorded; len(got) != 1 || got[0] != models.EventLogin {
		t.Fatalf("expected one login event, got %v", got)
	}
}

func TestLogin_EventFailureDoesNotBlock(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{
		users:  &fakeUsersRepo{getOut: testUser(), goodPassword: "right"},
		events: &fakeEventsRepo{recordErr: errors.New("events table locked")},
	}
	s := newAuthService(t, db, rm)

	if _, err := s.Login(context.Background(), "alice@example.com", "right"); err != nil {
		t.Fatalf("login must succeed even when the audit write fails: %v", err)
	}
}

func TestLogin_StoreFailure(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: errors.New("pq: down")}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.Login(context.Background(), "alice@example.com", "right")
	if !errors.Is(err, common.ErrStoreUnavailable) {
		t.Fatalf("want common.ErrStoreUnavailable, got %v", err)
	}
}

// --- WhoAmI ---

func TestWhoAmI_Anonymous(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getOut: testUser()}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.WhoAmI(context.Background(), auth.Anonymous())
	if !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("want common.ErrUnauthenticated, got %v", err)
	}
}

func TestWhoAmI_RecordGone(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrNotFound}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	authCtx := auth.Context{Authenticated: true, UserID: "u-1", Username: "alice"}
	_, err := s.WhoAmI(context.Background(), authCtx)
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want common.ErrUserNotFound, got %v", err)
	}
}

func TestWhoAmI_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getOut: testUser()}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	authCtx := auth.Context{Authenticated: true, UserID: "u-1", Username: "alice"}
	user, err := s.WhoAmI(context.Background(), authCtx)
	if err != nil {
		t.Fatalf("WhoAmI error: %v", err)
	}
	if user.ID != "u-1" || user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
}

// --- queries ---

func TestUsers_ReturnsPublicViews(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{
		users:  &fakeUsersRepo{listOut: []models.User{*testUser()}},
		events: &fakeEventsRepo{},
	}
	s := newAuthService(t, db, rm)

	users, err := s.Users(context.Background())
	if err != nil {
		t.Fatalf("Users error: %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestUserByUsername_NotFound(t *testing.T) {
	db, _ := newSQLMockDB(t)

	rm := &fakeRepoManager{users: &fakeUsersRepo{getErr: common.ErrNotFound}, events: &fakeEventsRepo{}}
	s := newAuthService(t, db, rm)

	_, err := s.UserByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrUserNotFound) {
		t.Fatalf("want common.ErrUserNotFound, got %v", err)
	}
}
