package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
)

type accessRequestRepository struct {
	db DBTX
}

func NewAccessRequestRepository(db DBTX) repository.AccessRequestRepository {
	return &accessRequestRepository{db: db}
}

const accessRequestColumns = `id, employee_id, course_id, status, requested_on, reviewed_by, reviewed_on`

func (r *accessRequestRepository) Create(ctx context.Context, req *domain.CourseAccessRequest) error {
	query := `INSERT INTO course_access_requests (employee_id, course_id, status, requested_on)
	          VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, req.EmployeeID, req.CourseID, req.Status, req.RequestedOn).Scan(&req.ID)
}

func scanAccessRequest(row *sql.Row) (*domain.CourseAccessRequest, error) {
	req := &domain.CourseAccessRequest{}
	err := row.Scan(&req.ID, &req.EmployeeID, &req.CourseID, &req.Status, &req.RequestedOn, &req.ReviewedBy, &req.ReviewedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return req, nil
}

func (r *accessRequestRepository) GetByID(ctx context.Context, id int32) (*domain.CourseAccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM course_access_requests WHERE id = $1`
	return scanAccessRequest(r.db.QueryRowContext(ctx, query, id))
}

func (r *accessRequestRepository) GetByCourseEmployee(ctx context.Context, courseID, employeeID int32) (*domain.CourseAccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM course_access_requests WHERE course_id = $1 AND employee_id = $2`
	return scanAccessRequest(r.db.QueryRowContext(ctx, query, courseID, employeeID))
}

func (r *accessRequestRepository) Update(ctx context.Context, req *domain.CourseAccessRequest) error {
	query := `UPDATE course_access_requests SET status = $1, reviewed_by = $2, reviewed_on = $3 WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, req.Status, req.ReviewedBy, req.ReviewedOn, req.ID)
	return err
}

func (r *accessRequestRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.CourseAccessRequest, error) {
	query := `SELECT ` + accessRequestColumns + ` FROM course_access_requests WHERE status = $1 AND requested_on < $2 ORDER BY requested_on`
	rows, err := r.db.QueryContext(ctx, query, domain.RequestStatusPending, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.CourseAccessRequest
	for rows.Next() {
		var req domain.CourseAccessRequest
		if err := rows.Scan(&req.ID, &req.EmployeeID, &req.CourseID, &req.Status, &req.RequestedOn, &req.ReviewedBy, &req.ReviewedOn); err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}
