package service

import (
	"context"
	"errors"
	"fmt"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/repository"
)

type limitsService struct {
	repos *repository.Repositories
	tx    repository.TxRunner
}

func NewLimitsService(repos *repository.Repositories, tx repository.TxRunner) LimitsService {
	return &limitsService{repos: repos, tx: tx}
}

func (s *limitsService) GetLimits(ctx context.Context, adminID int32) (*domain.AdminLimits, error) {
	return s.repos.Limits.Get(ctx, adminID)
}

func (s *limitsService) ApplyLimits(ctx context.Context, superadminID, adminID int32, update *domain.LimitsUpdate) (*domain.AdminLimits, error) {
	logger.EnterMethod("limitsService.ApplyLimits", "superadminID", superadminID, "adminID", adminID)

	admin, err := s.repos.Users.GetByID(ctx, adminID)
	if err != nil {
		logger.ExitMethodWithError("limitsService.ApplyLimits", err, "adminID", adminID)
		return nil, fmt.Errorf("admin %d: %w", adminID, err)
	}
	if admin.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin %d: %w", adminID, domain.ErrNotFound)
	}
	// Only the superadmin that created the admin may edit its limits.
	if admin.CreatedBySuperadmin == nil || *admin.CreatedBySuperadmin != superadminID {
		return nil, domain.ErrForbidden
	}

	limits, err := s.repos.Limits.Get(ctx, adminID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("load limits: %w", err)
		}
		limits = &domain.AdminLimits{AdminID: adminID}
	}

	// Validate every changed scope against its live usage floor before
	// writing anything.
	if err := s.applyScalars(ctx, adminID, limits, update); err != nil {
		return nil, err
	}
	if err := s.applyOrgOverrides(ctx, adminID, limits, update.OrgOverrides); err != nil {
		return nil, err
	}
	if err := s.applyCourseOverrides(ctx, adminID, limits, update.CourseOverrides); err != nil {
		return nil, err
	}

	if err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		return r.Limits.Save(ctx, limits)
	}); err != nil {
		logger.ExitMethodWithError("limitsService.ApplyLimits", err, "adminID", adminID)
		return nil, fmt.Errorf("save limits: %w", err)
	}

	logger.ExitMethod("limitsService.ApplyLimits", "adminID", adminID, "superadminID", superadminID)
	return limits, nil
}

func (s *limitsService) applyScalars(ctx context.Context, adminID int32, limits *domain.AdminLimits, update *domain.LimitsUpdate) error {
	type scalarEdit struct {
		field string
		value *int32
		dst   *int32
		floor func(context.Context) (int32, error)
	}

	edits := []scalarEdit{
		{"max_organizations", update.MaxOrganizations, &limits.MaxOrganizations,
			func(ctx context.Context) (int32, error) { return s.repos.Orgs.CountByAdmin(ctx, adminID) }},
		{"max_departments", update.MaxDepartments, &limits.MaxDepartments,
			func(ctx context.Context) (int32, error) { return s.repos.Departments.CountByAdmin(ctx, adminID) }},
		{"max_courses", update.MaxCourses, &limits.MaxCourses,
			func(ctx context.Context) (int32, error) { return s.repos.Courses.CountPublishedByAdmin(ctx, adminID) }},
		{"max_employees", update.MaxEmployees, &limits.MaxEmployees,
			func(ctx context.Context) (int32, error) { return s.repos.Users.CountActiveEmployeesByAdmin(ctx, adminID) }},
		// The per-course default has no single usage floor; explicit
		// per-course entries are checked individually below.
		{"max_employees_per_course_default", update.MaxEmployeesPerCourseDefault, &limits.MaxEmployeesPerCourseDefault,
			func(context.Context) (int32, error) { return 0, nil }},
	}

	for _, e := range edits {
		if e.value == nil {
			continue
		}
		if *e.value < 0 {
			return &domain.ValidationError{Field: e.field, Reason: "must not be negative"}
		}
		floor, err := e.floor(ctx)
		if err != nil {
			return fmt.Errorf("recompute usage for %s: %w", e.field, err)
		}
		if *e.value < floor {
			return &domain.ValidationError{
				Field:  e.field,
				Reason: fmt.Sprintf("cannot set limit %d below current usage %d", *e.value, floor),
			}
		}
		*e.dst = *e.value
	}
	return nil
}

func (s *limitsService) applyOrgOverrides(ctx context.Context, adminID int32, limits *domain.AdminLimits, entries []domain.OrgEmployeeLimit) error {
	for _, entry := range entries {
		if entry.Limit < 0 {
			return &domain.ValidationError{Field: "org_overrides", Reason: "limit must not be negative"}
		}
		org, err := s.repos.Orgs.GetByID(ctx, entry.OrgID)
		if err != nil {
			return fmt.Errorf("organization %d: %w", entry.OrgID, err)
		}
		if org.AdminID != adminID {
			return &domain.ValidationError{
				Field:  "org_overrides",
				Reason: fmt.Sprintf("organization %d does not belong to admin %d", entry.OrgID, adminID),
			}
		}
		current, err := s.repos.Users.CountActiveEmployeesByOrg(ctx, entry.OrgID)
		if err != nil {
			return fmt.Errorf("recompute usage for organization %d: %w", entry.OrgID, err)
		}
		if entry.Limit < current {
			return &domain.ValidationError{
				Field:  "org_overrides",
				Reason: fmt.Sprintf("cannot set limit %d for organization %q below current usage %d", entry.Limit, org.Name, current),
			}
		}
		upsertOrgOverride(limits, entry)
	}
	return nil
}

func (s *limitsService) applyCourseOverrides(ctx context.Context, adminID int32, limits *domain.AdminLimits, entries []domain.CourseEmployeeLimit) error {
	for _, entry := range entries {
		if entry.Limit < 0 {
			return &domain.ValidationError{Field: "course_overrides", Reason: "limit must not be negative"}
		}
		course, err := s.repos.Courses.GetByID(ctx, entry.CourseID)
		if err != nil {
			return fmt.Errorf("course %d: %w", entry.CourseID, err)
		}
		if course.AdminID != adminID {
			return &domain.ValidationError{
				Field:  "course_overrides",
				Reason: fmt.Sprintf("course %d does not belong to admin %d", entry.CourseID, adminID),
			}
		}
		current, err := s.repos.Courses.CountActiveEnrolled(ctx, entry.CourseID)
		if err != nil {
			return fmt.Errorf("recompute usage for course %d: %w", entry.CourseID, err)
		}
		if entry.Limit < current {
			return &domain.ValidationError{
				Field:  "course_overrides",
				Reason: fmt.Sprintf("cannot set limit %d for course %d below current usage %d", entry.Limit, entry.CourseID, current),
			}
		}
		upsertCourseOverride(limits, entry)
	}
	return nil
}

// upsertOrgOverride updates the entry in place when the org already has one,
// otherwise appends. Applying the same edit twice yields one entry.
func upsertOrgOverride(limits *domain.AdminLimits, entry domain.OrgEmployeeLimit) {
	for i := range limits.OrgOverrides {
		if limits.OrgOverrides[i].OrgID == entry.OrgID {
			limits.OrgOverrides[i].Limit = entry.Limit
			return
		}
	}
	limits.OrgOverrides = append(limits.OrgOverrides, entry)
}

func upsertCourseOverride(limits *domain.AdminLimits, entry domain.CourseEmployeeLimit) {
	for i := range limits.CourseOverrides {
		if limits.CourseOverrides[i].CourseID == entry.CourseID {
			limits.CourseOverrides[i].Limit = entry.Limit
			return
		}
	}
	limits.CourseOverrides = append(limits.CourseOverrides, entry)
}
