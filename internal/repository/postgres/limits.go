package postgres

import (
	"context"
	"database/sql"
	"errors"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/repository"
)

type limitsRepository struct {
	db DBTX
}

func NewLimitsRepository(db DBTX) repository.LimitsRepository {
	return &limitsRepository{db: db}
}

func (r *limitsRepository) Get(ctx context.Context, adminID int32) (*domain.AdminLimits, error) {
	l := &domain.AdminLimits{}
	query := `SELECT admin_id, max_organizations, max_departments, max_courses, max_employees, max_employees_per_course_default
	          FROM admin_limits WHERE admin_id = $1`
	err := r.db.QueryRowContext(ctx, query, adminID).Scan(
		&l.AdminID, &l.MaxOrganizations, &l.MaxDepartments, &l.MaxCourses, &l.MaxEmployees, &l.MaxEmployeesPerCourseDefault)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	orgRows, err := r.db.QueryContext(ctx, `SELECT org_id, employee_limit FROM admin_org_limits WHERE admin_id = $1 ORDER BY org_id`, adminID)
	if err != nil {
		return nil, err
	}
	defer orgRows.Close()
	for orgRows.Next() {
		var e domain.OrgEmployeeLimit
		if err := orgRows.Scan(&e.OrgID, &e.Limit); err != nil {
			return nil, err
		}
		l.OrgOverrides = append(l.OrgOverrides, e)
	}
	if err := orgRows.Err(); err != nil {
		return nil, err
	}

	courseRows, err := r.db.QueryContext(ctx, `SELECT course_id, employee_limit FROM admin_course_limits WHERE admin_id = $1 ORDER BY course_id`, adminID)
	if err != nil {
		return nil, err
	}
	defer courseRows.Close()
	for courseRows.Next() {
		var e domain.CourseEmployeeLimit
		if err := courseRows.Scan(&e.CourseID, &e.Limit); err != nil {
			return nil, err
		}
		l.CourseOverrides = append(l.CourseOverrides, e)
	}
	return l, courseRows.Err()
}

// Save writes the scalar record and upserts every override entry. Callers
// run it inside WithinTx so the record lands all-or-nothing.
func (r *limitsRepository) Save(ctx context.Context, l *domain.AdminLimits) error {
	logger.DatabaseCall("UPSERT", "admin_limits", "adminID", l.AdminID,
		"orgOverrides", len(l.OrgOverrides), "courseOverrides", len(l.CourseOverrides))
	query := `INSERT INTO admin_limits (admin_id, max_organizations, max_departments, max_courses, max_employees, max_employees_per_course_default)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (admin_id) DO UPDATE SET
	            max_organizations = EXCLUDED.max_organizations,
	            max_departments = EXCLUDED.max_departments,
	            max_courses = EXCLUDED.max_courses,
	            max_employees = EXCLUDED.max_employees,
	            max_employees_per_course_default = EXCLUDED.max_employees_per_course_default`
	if _, err := r.db.ExecContext(ctx, query,
		l.AdminID, l.MaxOrganizations, l.MaxDepartments, l.MaxCourses, l.MaxEmployees, l.MaxEmployeesPerCourseDefault); err != nil {
		return err
	}

	for _, e := range l.OrgOverrides {
		upsert := `INSERT INTO admin_org_limits (admin_id, org_id, employee_limit) VALUES ($1, $2, $3)
		           ON CONFLICT (admin_id, org_id) DO UPDATE SET employee_limit = EXCLUDED.employee_limit`
		if _, err := r.db.ExecContext(ctx, upsert, l.AdminID, e.OrgID, e.Limit); err != nil {
			return err
		}
	}
	for _, e := range l.CourseOverrides {
		upsert := `INSERT INTO admin_course_limits (admin_id, course_id, employee_limit) VALUES ($1, $2, $3)
		           ON CONFLICT (admin_id, course_id) DO UPDATE SET employee_limit = EXCLUDED.employee_limit`
		if _, err := r.db.ExecContext(ctx, upsert, l.AdminID, e.CourseID, e.Limit); err != nil {
			return err
		}
	}
	return nil
}
