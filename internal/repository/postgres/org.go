package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
)

type organizationRepository struct {
	db DBTX
}

func NewOrganizationRepository(db DBTX) repository.OrganizationRepository {
	return &organizationRepository{db: db}
}

func (r *organizationRepository) Create(ctx context.Context, o *domain.Organization) error {
	query := `INSERT INTO orgs (admin_id, name, description, created_on) VALUES ($1, $2, $3, $4) RETURNING id`
	return r.db.QueryRowContext(ctx, query, o.AdminID, o.Name, o.Description, time.Now()).Scan(&o.ID)
}

func (r *organizationRepository) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	o := &domain.Organization{}
	query := `SELECT id, admin_id, name, description, created_on FROM orgs WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&o.ID, &o.AdminID, &o.Name, &o.Description, &o.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return o, nil
}

func (r *organizationRepository) ListByAdmin(ctx context.Context, adminID int32) ([]domain.Organization, error) {
	query := `SELECT id, admin_id, name, description, created_on FROM orgs WHERE admin_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, adminID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orgs []domain.Organization
	for rows.Next() {
		var o domain.Organization
		if err := rows.Scan(&o.ID, &o.AdminID, &o.Name, &o.Description, &o.CreatedOn); err != nil {
			return nil, err
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (r *organizationRepository) CountByAdmin(ctx context.Context, adminID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orgs WHERE admin_id = $1`, adminID).Scan(&count)
	return count, err
}
