package repomanager

import (
	"context"
	"database/sql"

	"github.com/dpetrov/authkeeper/internal/dbx"
	"github.com/dpetrov/authkeeper/internal/server/repositories/events"
	"github.com/dpetrov/authkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Events(db dbx.DBTX) events.Repository
}
