package service

import (
	"context"

	"workculture-backend/internal/repository"
)

// usageCounter is a pure query layer over the repositories. Keeping it
// behind the UsageCounter interface leaves room for a caching layer with
// explicit invalidation later.
type usageCounter struct {
	repos *repository.Repositories
}

func NewUsageCounter(repos *repository.Repositories) UsageCounter {
	return &usageCounter{repos: repos}
}

func (s *usageCounter) CountOrganizations(ctx context.Context, adminID int32) (int32, error) {
	return s.repos.Orgs.CountByAdmin(ctx, adminID)
}

func (s *usageCounter) CountDepartments(ctx context.Context, adminID int32) (int32, error) {
	return s.repos.Departments.CountByAdmin(ctx, adminID)
}

func (s *usageCounter) CountPublishedCourses(ctx context.Context, adminID int32) (int32, error) {
	return s.repos.Courses.CountPublishedByAdmin(ctx, adminID)
}

func (s *usageCounter) CountActiveEmployees(ctx context.Context, adminID int32) (int32, error) {
	return s.repos.Users.CountActiveEmployeesByAdmin(ctx, adminID)
}

func (s *usageCounter) CountActiveEmployeesInOrg(ctx context.Context, orgID int32) (int32, error) {
	return s.repos.Users.CountActiveEmployeesByOrg(ctx, orgID)
}

func (s *usageCounter) CountActiveEmployeesInCourse(ctx context.Context, courseID int32) (int32, error) {
	return s.repos.Courses.CountActiveEnrolled(ctx, courseID)
}
