package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"workculture-backend/internal/repository"

	_ "github.com/lib/pq"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// standalone or transaction-bound.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.Repositories
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:           db,
		Repositories: newRepositories(db),
	}
}

func newRepositories(db DBTX) repository.Repositories {
	return repository.Repositories{
		Users:                NewUserRepository(db),
		Orgs:                 NewOrganizationRepository(db),
		Departments:          NewDepartmentRepository(db),
		Courses:              NewCourseRepository(db),
		Limits:               NewLimitsRepository(db),
		AccessRequests:       NewAccessRequestRepository(db),
		RegistrationRequests: NewRegistrationRequestRepository(db),
		Progress:             NewProgressRepository(db),
	}
}

// WithinTx runs fn against transaction-bound repositories. Any error from fn
// rolls everything back.
func (s *Store) WithinTx(ctx context.Context, fn func(r *repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	repos := newRepositories(tx)
	if err := fn(&repos); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
