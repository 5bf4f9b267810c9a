package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/repository"
)

type courseRepository struct {
	db DBTX
}

func NewCourseRepository(db DBTX) repository.CourseRepository {
	return &courseRepository{db: db}
}

const courseColumns = `id, admin_id, title, description, status, topic_count, subtopic_count, assignment_count, question_count, created_on`

func (r *courseRepository) Create(ctx context.Context, c *domain.Course) error {
	query := `INSERT INTO courses (admin_id, title, description, status, topic_count, subtopic_count, assignment_count, question_count, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		c.AdminID, c.Title, c.Description, c.Status,
		c.TopicCount, c.SubtopicCount, c.AssignmentCount, c.QuestionCount, time.Now(),
	).Scan(&c.ID)
}

func (r *courseRepository) GetByID(ctx context.Context, id int32) (*domain.Course, error) {
	c := &domain.Course{}
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.AdminID, &c.Title, &c.Description, &c.Status,
		&c.TopicCount, &c.SubtopicCount, &c.AssignmentCount, &c.QuestionCount, &c.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	linkQuery := `SELECT org_id FROM course_orgs WHERE course_id = $1 ORDER BY org_id`
	rows, err := r.db.QueryContext(ctx, linkQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var orgID int32
		if err := rows.Scan(&orgID); err != nil {
			return nil, err
		}
		c.LinkedOrgIDs = append(c.LinkedOrgIDs, orgID)
	}
	return c, rows.Err()
}

func (r *courseRepository) Update(ctx context.Context, c *domain.Course) error {
	query := `UPDATE courses SET title = $1, description = $2, status = $3, topic_count = $4, subtopic_count = $5, assignment_count = $6, question_count = $7 WHERE id = $8`
	_, err := r.db.ExecContext(ctx, query, c.Title, c.Description, c.Status,
		c.TopicCount, c.SubtopicCount, c.AssignmentCount, c.QuestionCount, c.ID)
	return err
}

func (r *courseRepository) LinkOrg(ctx context.Context, courseID, orgID int32) error {
	query := `INSERT INTO course_orgs (course_id, org_id) VALUES ($1, $2) ON CONFLICT (course_id, org_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, courseID, orgID)
	return err
}

func (r *courseRepository) CountPublishedByAdmin(ctx context.Context, adminID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM courses WHERE admin_id = $1 AND status = $2`
	var count int32
	err := r.db.QueryRowContext(ctx, query, adminID, domain.CourseStatusPublished).Scan(&count)
	return count, err
}

func (r *courseRepository) IsOwnedByAdmin(ctx context.Context, courseID, adminID int32) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1 AND admin_id = $2)`
	var owned bool
	err := r.db.QueryRowContext(ctx, query, courseID, adminID).Scan(&owned)
	return owned, err
}

// AddEnrollment relies on the (course_id, employee_id) primary key to stay
// idempotent, which also closes the race between two concurrent approvals of
// the same pair.
func (r *courseRepository) AddEnrollment(ctx context.Context, courseID, employeeID int32) error {
	query := `INSERT INTO course_enrollments (course_id, employee_id, enrolled_on) VALUES ($1, $2, $3)
	          ON CONFLICT (course_id, employee_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, courseID, employeeID, time.Now())
	return err
}

func (r *courseRepository) RemoveEnrollment(ctx context.Context, courseID, employeeID int32) error {
	query := `DELETE FROM course_enrollments WHERE course_id = $1 AND employee_id = $2`
	res, err := r.db.ExecContext(ctx, query, courseID, employeeID)
	if err != nil {
		return err
	}
	rows, _ := res.RowsAffected()
	logger.DatabaseResult("DELETE", rows, nil, "courseID", courseID, "employeeID", employeeID)
	return nil
}

func (r *courseRepository) CountActiveEnrolled(ctx context.Context, courseID int32) (int32, error) {
	query := `SELECT COUNT(*) FROM course_enrollments ce
	          JOIN users u ON ce.employee_id = u.id
	          WHERE ce.course_id = $1 AND u.account_status = $2`
	var count int32
	err := r.db.QueryRowContext(ctx, query, courseID, domain.AccountStatusActive).Scan(&count)
	return count, err
}

func (r *courseRepository) ListEnrolledCourseIDs(ctx context.Context, employeeID int32) ([]int32, error) {
	query := `SELECT course_id FROM course_enrollments WHERE employee_id = $1 ORDER BY course_id`
	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
