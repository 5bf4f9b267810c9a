package postgres

import (
	"context"
	"errors"
	"testing"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE course_access_requests`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewStore(db)
	err = store.WithinTx(context.Background(), func(r *repository.Repositories) error {
		return r.AccessRequests.Update(context.Background(), &domain.CourseAccessRequest{
			ID: 42, Status: domain.RequestStatusApproved,
		})
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	boom := errors.New("boom")
	store := NewStore(db)
	err = store.WithinTx(context.Background(), func(*repository.Repositories) error {
		return boom
	})

	assert.True(t, errors.Is(err, boom))
	assert.NoError(t, mock.ExpectationsWereMet())
}
