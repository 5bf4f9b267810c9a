package service

import (
	"context"

	"workculture-backend/internal/domain"
)

// UsageCounter answers live usage queries. Counts are recomputed from the
// source-of-truth tables on every call and never cached, so quota decisions
// always see the latest committed state.
type UsageCounter interface {
	CountOrganizations(ctx context.Context, adminID int32) (int32, error)
	CountDepartments(ctx context.Context, adminID int32) (int32, error)
	CountPublishedCourses(ctx context.Context, adminID int32) (int32, error)
	CountActiveEmployees(ctx context.Context, adminID int32) (int32, error)
	CountActiveEmployeesInOrg(ctx context.Context, orgID int32) (int32, error)
	CountActiveEmployeesInCourse(ctx context.Context, courseID int32) (int32, error)
}

// QuotaEvaluator decides whether an admin may perform a resource-creating
// action right now. Evaluate never mutates state and is safe to call
// speculatively.
type QuotaEvaluator interface {
	Evaluate(ctx context.Context, adminID int32, action domain.QuotaAction, scopeID int32) (*domain.QuotaDecision, error)
}

type LimitsService interface {
	GetLimits(ctx context.Context, adminID int32) (*domain.AdminLimits, error)
	// ApplyLimits applies a superadmin-issued limit edit. Every changed scope
	// is validated against its current usage floor before anything is
	// written; a single invalid field aborts the whole update.
	ApplyLimits(ctx context.Context, superadminID, adminID int32, update *domain.LimitsUpdate) (*domain.AdminLimits, error)
}

type AccessRequestService interface {
	// Request creates a pending course-access request; at most one request
	// exists per (employee, course) pair.
	Request(ctx context.Context, employeeID, courseID int32) (*domain.CourseAccessRequest, error)
	Review(ctx context.Context, adminID, courseID, employeeID int32, action domain.ReviewAction) (*domain.CourseAccessRequest, error)
	// Revoke withdraws a previously approved request (legacy path). The
	// membership mutation matches a rejection but the recorded status is
	// REVOKED.
	Revoke(ctx context.Context, adminID, courseID, employeeID int32) (*domain.CourseAccessRequest, error)
	BulkReview(ctx context.Context, adminID int32, requestIDs []int32, action domain.ReviewAction) (*domain.BulkResult, error)
}

type RegistrationService interface {
	Review(ctx context.Context, adminID, requestID int32, action domain.ReviewAction) (*domain.RegistrationRequest, error)
	BulkReview(ctx context.Context, adminID int32, requestIDs []int32, action domain.ReviewAction) (*domain.BulkResult, error)
}

type TenantService interface {
	CreateOrganization(ctx context.Context, adminID int32, name, description string) (*domain.Organization, error)
	CreateDepartment(ctx context.Context, adminID, orgID int32, name string) (*domain.Department, error)
	CreateCourse(ctx context.Context, adminID int32, course *domain.Course, linkOrgIDs []int32) (*domain.Course, error)
	PublishCourse(ctx context.Context, adminID, courseID int32) (*domain.Course, error)
	AddEmployee(ctx context.Context, adminID, orgID int32, departmentID *int32, name, email, jobTitle, password string) (*domain.User, error)
}

type ProgressService interface {
	RecordCompletion(ctx context.Context, userID, courseID int32, dimension domain.ProgressDimension, itemID int32) (*domain.CourseProgress, error)
	GetProgress(ctx context.Context, userID, courseID int32) (*domain.CourseProgress, error)
}

type AuthService interface {
	SignupEmployee(ctx context.Context, name, email, password string, orgID int32, departmentID *int32) (*domain.User, *domain.RegistrationRequest, error)
	SignupIndividual(ctx context.Context, name, email, password string) (*domain.User, *domain.RegistrationRequest, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// EmailService delivers fire-and-forget notifications. Callers invoke it
// after commit; a delivery failure never rolls back the reviewed request.
type EmailService interface {
	SendAccessReviewNotification(ctx context.Context, email, name, courseTitle string, status domain.RequestStatus) error
	SendRegistrationReviewNotification(ctx context.Context, email, name string, status domain.RequestStatus) error
	SendPendingReviewReminder(ctx context.Context, email, name string, pendingCount int32) error
}
