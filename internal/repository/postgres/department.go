package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
)

type departmentRepository struct {
	db DBTX
}

func NewDepartmentRepository(db DBTX) repository.DepartmentRepository {
	return &departmentRepository{db: db}
}

func (r *departmentRepository) Create(ctx context.Context, d *domain.Department) error {
	query := `INSERT INTO departments (org_id, name, created_on) VALUES ($1, $2, $3) RETURNING id`
	return r.db.QueryRowContext(ctx, query, d.OrgID, d.Name, time.Now()).Scan(&d.ID)
}

func (r *departmentRepository) GetByID(ctx context.Context, id int32) (*domain.Department, error) {
	d := &domain.Department{}
	query := `SELECT id, org_id, name, created_on FROM departments WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&d.ID, &d.OrgID, &d.Name, &d.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *departmentRepository) ListByOrg(ctx context.Context, orgID int32) ([]domain.Department, error) {
	query := `SELECT id, org_id, name, created_on FROM departments WHERE org_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depts []domain.Department
	for rows.Next() {
		var d domain.Department
		if err := rows.Scan(&d.ID, &d.OrgID, &d.Name, &d.CreatedOn); err != nil {
			return nil, err
		}
		depts = append(depts, d)
	}
	return depts, rows.Err()
}

func (r *departmentRepository) CountByAdmin(ctx context.Context, adminID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM departments d JOIN orgs o ON d.org_id = o.id WHERE o.admin_id = $1`
	var count int32
	err := r.db.QueryRowContext(ctx, query, adminID).Scan(&count)
	return count, err
}
