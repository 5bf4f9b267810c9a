package jobs

import (
	"context"
	"database/sql"
	"time"

	"workculture-backend/internal/config"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/repository"
	"workculture-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	db       *sql.DB
	repos    *repository.Repositories
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Email service.EmailService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(db *sql.DB, repos *repository.Repositories, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		db:       db,
		repos:    repos,
		services: services,
		config:   cfg,
	}
}

// Config exposes the runner's configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// SendPendingReviewReminders emails each reviewer a count of requests that
// have sat in PENDING longer than the configured threshold.
func (jr *JobRunner) SendPendingReviewReminders() {
	jr.runWithRecovery("SendPendingReviewReminders", func() {
		ctx := context.Background()
		cutoff := time.Now().Add(-time.Duration(jr.config.Scheduler.ReminderThresholdHours) * time.Hour)

		pending := map[int32]int32{}
		jr.collectPendingAccessRequests(ctx, cutoff, pending)
		jr.collectPendingRegistrations(ctx, cutoff, pending)

		for adminID, count := range pending {
			admin, err := jr.repos.Users.GetByID(ctx, adminID)
			if err != nil {
				logger.Error("Failed to load reviewer for reminder", "admin_id", adminID, "error", err)
				continue
			}
			if err := jr.services.Email.SendPendingReviewReminder(ctx, admin.Email, admin.Name, count); err != nil {
				logger.Error("Failed to send pending review reminder", "admin_id", adminID, "error", err)
				continue
			}
			logger.Info("Pending review reminder sent", "admin_id", adminID, "pending", count)
		}
	})
}

// collectPendingAccessRequests attributes each stale course-access request
// to the owning admin of its course.
func (jr *JobRunner) collectPendingAccessRequests(ctx context.Context, cutoff time.Time, pending map[int32]int32) {
	requests, err := jr.repos.AccessRequests.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to list pending access requests", "error", err)
		return
	}
	for _, req := range requests {
		course, err := jr.repos.Courses.GetByID(ctx, req.CourseID)
		if err != nil {
			logger.Error("Failed to load course for reminder", "course_id", req.CourseID, "error", err)
			continue
		}
		pending[course.AdminID]++
	}
}

// collectPendingRegistrations attributes each stale employee registration to
// the admin of the target organization. Individual registrations belong to
// superadmins and are left out of per-admin reminders.
func (jr *JobRunner) collectPendingRegistrations(ctx context.Context, cutoff time.Time, pending map[int32]int32) {
	requests, err := jr.repos.RegistrationRequests.ListPendingOlderThan(ctx, cutoff)
	if err != nil {
		logger.Error("Failed to list pending registration requests", "error", err)
		return
	}
	for _, req := range requests {
		user, err := jr.repos.Users.GetByID(ctx, req.UserID)
		if err != nil {
			logger.Error("Failed to load user for reminder", "user_id", req.UserID, "error", err)
			continue
		}
		if user.Employee == nil {
			continue
		}
		org, err := jr.repos.Orgs.GetByID(ctx, user.Employee.OrgID)
		if err != nil {
			logger.Error("Failed to load organization for reminder", "org_id", user.Employee.OrgID, "error", err)
			continue
		}
		pending[org.AdminID]++
	}
}
