package repository

import (
	"context"
	"time"

	"workculture-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdateAccountStatus(ctx context.Context, userID int32, status domain.AccountStatus) error

	// Usage queries. Only active employees count against employee quotas.
	CountActiveEmployeesByAdmin(ctx context.Context, adminID int32) (int32, error)
	CountActiveEmployeesByOrg(ctx context.Context, orgID int32) (int32, error)
}

type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id int32) (*domain.Organization, error)
	ListByAdmin(ctx context.Context, adminID int32) ([]domain.Organization, error)
	CountByAdmin(ctx context.Context, adminID int32) (int32, error)
}

type DepartmentRepository interface {
	Create(ctx context.Context, dept *domain.Department) error
	GetByID(ctx context.Context, id int32) (*domain.Department, error)
	ListByOrg(ctx context.Context, orgID int32) ([]domain.Department, error)
	CountByAdmin(ctx context.Context, adminID int32) (int32, error)
}

type CourseRepository interface {
	Create(ctx context.Context, course *domain.Course) error
	GetByID(ctx context.Context, id int32) (*domain.Course, error)
	Update(ctx context.Context, course *domain.Course) error
	LinkOrg(ctx context.Context, courseID, orgID int32) error
	CountPublishedByAdmin(ctx context.Context, adminID int32) (int32, error)

	// IsOwnedByAdmin reports whether the course was created by the admin.
	IsOwnedByAdmin(ctx context.Context, courseID, adminID int32) (bool, error)

	// Enrollment membership. AddEnrollment is idempotent: re-adding an
	// existing (course, employee) pair is a no-op.
	AddEnrollment(ctx context.Context, courseID, employeeID int32) error
	RemoveEnrollment(ctx context.Context, courseID, employeeID int32) error
	CountActiveEnrolled(ctx context.Context, courseID int32) (int32, error)
	ListEnrolledCourseIDs(ctx context.Context, employeeID int32) ([]int32, error)
}

type LimitsRepository interface {
	Get(ctx context.Context, adminID int32) (*domain.AdminLimits, error)
	// Save persists the whole limits record: scalars overwritten, override
	// entries upserted by scope id.
	Save(ctx context.Context, limits *domain.AdminLimits) error
}

type AccessRequestRepository interface {
	Create(ctx context.Context, req *domain.CourseAccessRequest) error
	GetByID(ctx context.Context, id int32) (*domain.CourseAccessRequest, error)
	GetByCourseEmployee(ctx context.Context, courseID, employeeID int32) (*domain.CourseAccessRequest, error)
	Update(ctx context.Context, req *domain.CourseAccessRequest) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.CourseAccessRequest, error)
}

type RegistrationRequestRepository interface {
	Create(ctx context.Context, req *domain.RegistrationRequest) error
	GetByID(ctx context.Context, id int32) (*domain.RegistrationRequest, error)
	Update(ctx context.Context, req *domain.RegistrationRequest) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error)
}

type ProgressRepository interface {
	Create(ctx context.Context, p *domain.CourseProgress) error
	GetByUserCourse(ctx context.Context, userID, courseID int32) (*domain.CourseProgress, error)
	Update(ctx context.Context, p *domain.CourseProgress) error
}

// Repositories bundles every aggregate repository. A transaction-bound copy
// is handed to WithinTx callbacks.
type Repositories struct {
	Users                UserRepository
	Orgs                 OrganizationRepository
	Departments          DepartmentRepository
	Courses              CourseRepository
	Limits               LimitsRepository
	AccessRequests       AccessRequestRepository
	RegistrationRequests RegistrationRequestRepository
	Progress             ProgressRepository
}

// TxRunner executes fn against transaction-bound repositories. fn returning
// an error rolls the whole transaction back.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(r *Repositories) error) error
}
