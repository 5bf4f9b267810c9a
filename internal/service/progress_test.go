package service

import (
	"context"
	"testing"

	"workculture-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestComputeWeightedProgress(t *testing.T) {
	tests := []struct {
		name      string
		completed CompletionCounts
		totals    CompletionCounts
		want      int32
	}{
		{
			name: "nothing completed",
			want: 0,
		},
		{
			name:      "everything completed",
			completed: CompletionCounts{Topics: 3, Subtopics: 6, Assignments: 2, Questions: 20},
			totals:    CompletionCounts{Topics: 3, Subtopics: 6, Assignments: 2, Questions: 20},
			want:      100,
		},
		{
			name:      "questions dominate the score",
			completed: CompletionCounts{Questions: 10},
			totals:    CompletionCounts{Topics: 3, Subtopics: 6, Assignments: 2, Questions: 20},
			want:      35, // 0.7 * 0.5
		},
		{
			name:      "all light dimensions done, no questions",
			completed: CompletionCounts{Topics: 3, Subtopics: 6, Assignments: 2},
			totals:    CompletionCounts{Topics: 3, Subtopics: 6, Assignments: 2, Questions: 20},
			want:      30,
		},
		{
			name:      "zero-total dimensions contribute zero",
			completed: CompletionCounts{Questions: 20},
			totals:    CompletionCounts{Questions: 20},
			want:      70,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeWeightedProgress(tt.completed, tt.totals))
		})
	}
}

func TestDeriveProgressStatus(t *testing.T) {
	assert.Equal(t, domain.ProgressStatusNotStarted, DeriveProgressStatus(0, CompletionCounts{}))
	assert.Equal(t, domain.ProgressStatusInProgress, DeriveProgressStatus(0, CompletionCounts{Topics: 1}))
	assert.Equal(t, domain.ProgressStatusInProgress, DeriveProgressStatus(99, CompletionCounts{Questions: 5}))
	assert.Equal(t, domain.ProgressStatusCompleted, DeriveProgressStatus(100, CompletionCounts{Questions: 5}))
}

func TestRecordCompletion_CreatesRecordLazily(t *testing.T) {
	repos, m := newTestRepos()
	m.courses.On("GetByID", mock.Anything, courseID).Return(&domain.Course{
		ID: courseID, TopicCount: 2, QuestionCount: 10,
	}, nil)
	m.progress.On("GetByUserCourse", mock.Anything, workerID, courseID).Return(nil, domain.ErrNotFound)
	m.progress.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := NewProgressService(repos)
	p, err := svc.RecordCompletion(context.Background(), workerID, courseID, domain.DimensionTopic, 11)

	require.NoError(t, err)
	assert.Equal(t, []int32{11}, p.CompletedTopics)
	assert.Equal(t, int32(5), p.ProgressPercent) // 0.1 * 1/2
	assert.Equal(t, domain.ProgressStatusInProgress, p.Status)
	m.progress.AssertCalled(t, "Create", mock.Anything, p)
	m.progress.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRecordCompletion_RepeatedItemIsIdempotent(t *testing.T) {
	repos, m := newTestRepos()
	m.courses.On("GetByID", mock.Anything, courseID).Return(&domain.Course{
		ID: courseID, QuestionCount: 4,
	}, nil)
	existing := &domain.CourseProgress{
		UserID: workerID, CourseID: courseID,
		CompletedQuestions: []int32{9},
		Status:             domain.ProgressStatusInProgress,
	}
	m.progress.On("GetByUserCourse", mock.Anything, workerID, courseID).Return(existing, nil)
	m.progress.On("Update", mock.Anything, existing).Return(nil)

	svc := NewProgressService(repos)
	p, err := svc.RecordCompletion(context.Background(), workerID, courseID, domain.DimensionQuestion, 9)

	require.NoError(t, err)
	assert.Equal(t, []int32{9}, p.CompletedQuestions)
}

func TestRecordCompletion_FullCourseReachesCompleted(t *testing.T) {
	repos, m := newTestRepos()
	m.courses.On("GetByID", mock.Anything, courseID).Return(&domain.Course{
		ID: courseID, TopicCount: 1, SubtopicCount: 1, AssignmentCount: 1, QuestionCount: 2,
	}, nil)
	existing := &domain.CourseProgress{
		UserID: workerID, CourseID: courseID,
		CompletedTopics:      []int32{1},
		CompletedSubtopics:   []int32{1},
		CompletedAssignments: []int32{1},
		CompletedQuestions:   []int32{1},
		Status:               domain.ProgressStatusInProgress,
	}
	m.progress.On("GetByUserCourse", mock.Anything, workerID, courseID).Return(existing, nil)
	m.progress.On("Update", mock.Anything, existing).Return(nil)

	svc := NewProgressService(repos)
	p, err := svc.RecordCompletion(context.Background(), workerID, courseID, domain.DimensionQuestion, 2)

	require.NoError(t, err)
	assert.Equal(t, int32(100), p.ProgressPercent)
	assert.Equal(t, domain.ProgressStatusCompleted, p.Status)
}
