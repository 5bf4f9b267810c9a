package domain

import "time"

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"
	CourseStatusPublished CourseStatus = "PUBLISHED"
)

type Course struct {
	ID          int32        `json:"id"`
	AdminID     int32        `json:"admin_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      CourseStatus `json:"status"`

	// Authoring totals used by the progress aggregator.
	TopicCount      int32 `json:"topic_count"`
	SubtopicCount   int32 `json:"subtopic_count"`
	AssignmentCount int32 `json:"assignment_count"`
	QuestionCount   int32 `json:"question_count"`

	LinkedOrgIDs []int32   `json:"linked_org_ids,omitempty"`
	CreatedOn    time.Time `json:"created_on"`
}
