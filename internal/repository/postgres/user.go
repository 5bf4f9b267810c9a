package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, email, password_hash, name, role, account_status, created_by_superadmin, org_id, department_id, job_title, created_on, updated_on`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	var orgID, deptID *int32
	var jobTitle string
	if u.Employee != nil {
		orgID = &u.Employee.OrgID
		deptID = u.Employee.DepartmentID
		jobTitle = u.Employee.JobTitle
	}
	query := `INSERT INTO users (email, password_hash, name, role, account_status, created_by_superadmin, org_id, department_id, job_title, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.Role, u.AccountStatus,
		u.CreatedBySuperadmin, orgID, deptID, jobTitle, time.Now(),
	).Scan(&u.ID)
}

func scanUser(row *sql.Row) (*domain.User, error) {
	u := &domain.User{}
	var orgID, deptID sql.NullInt32
	var jobTitle sql.NullString
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.AccountStatus,
		&u.CreatedBySuperadmin, &orgID, &deptID, &jobTitle, &u.CreatedOn, &u.UpdatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if orgID.Valid {
		u.Employee = &domain.EmployeeData{OrgID: orgID.Int32, JobTitle: jobTitle.String}
		if deptID.Valid {
			u.Employee.DepartmentID = &deptID.Int32
		}
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	var orgID, deptID *int32
	var jobTitle string
	if u.Employee != nil {
		orgID = &u.Employee.OrgID
		deptID = u.Employee.DepartmentID
		jobTitle = u.Employee.JobTitle
	}
	query := `UPDATE users SET email = $1, name = $2, role = $3, account_status = $4, org_id = $5, department_id = $6, job_title = $7, updated_on = $8 WHERE id = $9`
	_, err := r.db.ExecContext(ctx, query, u.Email, u.Name, u.Role, u.AccountStatus, orgID, deptID, jobTitle, time.Now(), u.ID)
	return err
}

func (r *userRepository) UpdateAccountStatus(ctx context.Context, userID int32, status domain.AccountStatus) error {
	query := `UPDATE users SET account_status = $1, updated_on = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, query, status, time.Now(), userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *userRepository) CountActiveEmployeesByAdmin(ctx context.Context, adminID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM users u
	          JOIN orgs o ON u.org_id = o.id
	          WHERE o.admin_id = $1 AND u.role = $2 AND u.account_status = $3`
	var count int32
	err := r.db.QueryRowContext(ctx, query, adminID, domain.RoleEmployee, domain.AccountStatusActive).Scan(&count)
	return count, err
}

func (r *userRepository) CountActiveEmployeesByOrg(ctx context.Context, orgID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM users WHERE org_id = $1 AND role = $2 AND account_status = $3`
	var count int32
	err := r.db.QueryRowContext(ctx, query, orgID, domain.RoleEmployee, domain.AccountStatusActive).Scan(&count)
	return count, err
}
