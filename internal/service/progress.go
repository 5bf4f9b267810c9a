package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"
)

// Dimension weights for the overall completion percentage. Questions carry
// most of the weight: the bulk of measurable work is answering assessments.
const (
	topicWeight      = 0.1
	subtopicWeight   = 0.1
	assignmentWeight = 0.1
	questionWeight   = 0.7
)

// CompletionCounts holds one count per progress dimension.
type CompletionCounts struct {
	Topics      int32
	Subtopics   int32
	Assignments int32
	Questions   int32
}

// ComputeWeightedProgress converts four completion ratios into one integer
// percent. A dimension with zero total contributes zero instead of dividing
// by zero. Deterministic and side-effect free; the caller persists the
// result.
func ComputeWeightedProgress(completed, totals CompletionCounts) int32 {
	sum := ratio(completed.Topics, totals.Topics)*topicWeight +
		ratio(completed.Subtopics, totals.Subtopics)*subtopicWeight +
		ratio(completed.Assignments, totals.Assignments)*assignmentWeight +
		ratio(completed.Questions, totals.Questions)*questionWeight
	return int32(math.Round(sum * 100))
}

func ratio(completed, total int32) float64 {
	if total == 0 {
		return 0
	}
	if completed > total {
		completed = total
	}
	return float64(completed) / float64(total)
}

// DeriveProgressStatus gates "completed" on exactly 100 percent.
func DeriveProgressStatus(percent int32, completed CompletionCounts) domain.ProgressStatus {
	switch {
	case percent == 100:
		return domain.ProgressStatusCompleted
	case completed.Topics > 0 || completed.Subtopics > 0 || completed.Assignments > 0 || completed.Questions > 0:
		return domain.ProgressStatusInProgress
	default:
		return domain.ProgressStatusNotStarted
	}
}

type progressService struct {
	repos *repository.Repositories
}

func NewProgressService(repos *repository.Repositories) ProgressService {
	return &progressService{repos: repos}
}

func (s *progressService) GetProgress(ctx context.Context, userID, courseID int32) (*domain.CourseProgress, error) {
	return s.repos.Progress.GetByUserCourse(ctx, userID, courseID)
}

// RecordCompletion marks one item complete and recomputes the weighted
// percent. The progress record is created lazily on the first update.
func (s *progressService) RecordCompletion(ctx context.Context, userID, courseID int32, dimension domain.ProgressDimension, itemID int32) (*domain.CourseProgress, error) {
	course, err := s.repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, err)
	}

	created := false
	p, err := s.repos.Progress.GetByUserCourse(ctx, userID, courseID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load progress: %w", err)
		}
		p = &domain.CourseProgress{UserID: userID, CourseID: courseID, Status: domain.ProgressStatusNotStarted}
		created = true
	}

	switch dimension {
	case domain.DimensionTopic:
		p.CompletedTopics = appendUnique(p.CompletedTopics, itemID)
	case domain.DimensionSubtopic:
		p.CompletedSubtopics = appendUnique(p.CompletedSubtopics, itemID)
	case domain.DimensionAssignment:
		p.CompletedAssignments = appendUnique(p.CompletedAssignments, itemID)
	case domain.DimensionQuestion:
		p.CompletedQuestions = appendUnique(p.CompletedQuestions, itemID)
	default:
		return nil, fmt.Errorf("unknown progress dimension %q", dimension)
	}

	completed := CompletionCounts{
		Topics:      int32(len(p.CompletedTopics)),
		Subtopics:   int32(len(p.CompletedSubtopics)),
		Assignments: int32(len(p.CompletedAssignments)),
		Questions:   int32(len(p.CompletedQuestions)),
	}
	totals := CompletionCounts{
		Topics:      course.TopicCount,
		Subtopics:   course.SubtopicCount,
		Assignments: course.AssignmentCount,
		Questions:   course.QuestionCount,
	}
	p.ProgressPercent = ComputeWeightedProgress(completed, totals)
	p.Status = DeriveProgressStatus(p.ProgressPercent, completed)
	p.LastUpdated = time.Now()

	if created {
		if err := s.repos.Progress.Create(ctx, p); err != nil {
			return nil, fmt.Errorf("create progress: %w", err)
		}
		return p, nil
	}
	if err := s.repos.Progress.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return p, nil
}

func appendUnique(ids []int32, id int32) []int32 {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
