package domain

import "time"

type ProgressStatus string

const (
	ProgressStatusNotStarted ProgressStatus = "NOT_STARTED"
	ProgressStatusInProgress ProgressStatus = "IN_PROGRESS"
	ProgressStatusCompleted  ProgressStatus = "COMPLETED"
)

// CourseProgress is one record per (user, course), created lazily on the
// first progress update.
type CourseProgress struct {
	ID                   int32          `json:"id"`
	UserID               int32          `json:"user_id"`
	CourseID             int32          `json:"course_id"`
	CompletedTopics      []int32        `json:"completed_topics"`
	CompletedSubtopics   []int32        `json:"completed_subtopics"`
	CompletedAssignments []int32        `json:"completed_assignments"`
	CompletedQuestions   []int32        `json:"completed_questions"`
	ProgressPercent      int32          `json:"progress_percent"`
	Status               ProgressStatus `json:"status"`
	LastUpdated          time.Time      `json:"last_updated"`
}

// ProgressDimension names one of the four completion dimensions.
type ProgressDimension string

const (
	DimensionTopic      ProgressDimension = "TOPIC"
	DimensionSubtopic   ProgressDimension = "SUBTOPIC"
	DimensionAssignment ProgressDimension = "ASSIGNMENT"
	DimensionQuestion   ProgressDimension = "QUESTION"
)
