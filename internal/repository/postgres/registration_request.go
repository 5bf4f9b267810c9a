package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
)

type registrationRequestRepository struct {
	db DBTX
}

func NewRegistrationRequestRepository(db DBTX) repository.RegistrationRequestRepository {
	return &registrationRequestRepository{db: db}
}

const registrationRequestColumns = `id, user_id, account_type, reference, status, requested_on, reviewed_by, reviewed_on`

func (r *registrationRequestRepository) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	query := `INSERT INTO registration_requests (user_id, account_type, reference, status, requested_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, req.UserID, req.AccountType, req.Reference, req.Status, req.RequestedOn).Scan(&req.ID)
}

func (r *registrationRequestRepository) GetByID(ctx context.Context, id int32) (*domain.RegistrationRequest, error) {
	req := &domain.RegistrationRequest{}
	query := `SELECT ` + registrationRequestColumns + ` FROM registration_requests WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&req.ID, &req.UserID, &req.AccountType, &req.Reference, &req.Status, &req.RequestedOn, &req.ReviewedBy, &req.ReviewedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *registrationRequestRepository) Update(ctx context.Context, req *domain.RegistrationRequest) error {
	query := `UPDATE registration_requests SET status = $1, reviewed_by = $2, reviewed_on = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, req.Status, req.ReviewedBy, req.ReviewedOn, req.ID)
	return err
}

func (r *registrationRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error) {
	query := `SELECT ` + registrationRequestColumns + ` FROM registration_requests WHERE status = $1 AND requested_on < $2 ORDER BY requested_on`
	rows, err := r.db.QueryContext(ctx, query, domain.RequestStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.RegistrationRequest
	for rows.Next() {
		var req domain.RegistrationRequest
		if err := rows.Scan(&req.ID, &req.UserID, &req.AccountType, &req.Reference, &req.Status, &req.RequestedOn, &req.ReviewedBy, &req.ReviewedOn); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
