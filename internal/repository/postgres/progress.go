package postgres

import (
	"context"
	"database/sql"
	"errors"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"

	"github.com/lib/pq"
)

type progressRepository struct {
	db DBTX
}

func NewProgressRepository(db DBTX) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func (r *progressRepository) Create(ctx context.Context, p *domain.CourseProgress) error {
	query := `INSERT INTO course_progress (user_id, course_id, completed_topics, completed_subtopics, completed_assignments, completed_questions, progress_percent, status, last_updated)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		p.UserID, p.CourseID,
		pq.Array(p.CompletedTopics), pq.Array(p.CompletedSubtopics),
		pq.Array(p.CompletedAssignments), pq.Array(p.CompletedQuestions),
		p.ProgressPercent, p.Status, p.LastUpdated,
	).Scan(&p.ID)
}

func (r *progressRepository) GetByUserCourse(ctx context.Context, userID, courseID int32) (*domain.CourseProgress, error) {
	p := &domain.CourseProgress{}
	query := `SELECT id, user_id, course_id, completed_topics, completed_subtopics, completed_assignments, completed_questions, progress_percent, status, last_updated
	          FROM course_progress WHERE user_id = $1 AND course_id = $2`
	err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(
		&p.ID, &p.UserID, &p.CourseID,
		pq.Array(&p.CompletedTopics), pq.Array(&p.CompletedSubtopics),
		pq.Array(&p.CompletedAssignments), pq.Array(&p.CompletedQuestions),
		&p.ProgressPercent, &p.Status, &p.LastUpdated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *progressRepository) Update(ctx context.Context, p *domain.CourseProgress) error {
	query := `UPDATE course_progress SET completed_topics = $1, completed_subtopics = $2, completed_assignments = $3, completed_questions = $4, progress_percent = $5, status = $6, last_updated = $7
	          WHERE id = $8`
	_, err := r.db.ExecContext(ctx, query,
		pq.Array(p.CompletedTopics), pq.Array(p.CompletedSubtopics),
		pq.Array(p.CompletedAssignments), pq.Array(p.CompletedQuestions),
		p.ProgressPercent, p.Status, p.LastUpdated, p.ID)
	return err
}
