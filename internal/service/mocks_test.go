package service

import (
	"context"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/repository"

	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) UpdateAccountStatus(ctx context.Context, userID int32, status domain.AccountStatus) error {
	return m.Called(ctx, userID, status).Error(0)
}

func (m *mockUserRepo) CountActiveEmployeesByAdmin(ctx context.Context, adminID int32) (int32, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockUserRepo) CountActiveEmployeesByOrg(ctx context.Context, orgID int32) (int32, error) {
	args := m.Called(ctx, orgID)
	return args.Get(0).(int32), args.Error(1)
}

type mockOrgRepo struct{ mock.Mock }

func (m *mockOrgRepo) Create(ctx context.Context, org *domain.Organization) error {
	return m.Called(ctx, org).Error(0)
}

func (m *mockOrgRepo) GetByID(ctx context.Context, id int32) (*domain.Organization, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *mockOrgRepo) ListByAdmin(ctx context.Context, adminID int32) ([]domain.Organization, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Organization), args.Error(1)
}

func (m *mockOrgRepo) CountByAdmin(ctx context.Context, adminID int32) (int32, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int32), args.Error(1)
}

type mockDepartmentRepo struct{ mock.Mock }

func (m *mockDepartmentRepo) Create(ctx context.Context, dept *domain.Department) error {
	return m.Called(ctx, dept).Error(0)
}

func (m *mockDepartmentRepo) GetByID(ctx context.Context, id int32) (*domain.Department, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Department), args.Error(1)
}

func (m *mockDepartmentRepo) ListByOrg(ctx context.Context, orgID int32) ([]domain.Department, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Department), args.Error(1)
}

func (m *mockDepartmentRepo) CountByAdmin(ctx context.Context, adminID int32) (int32, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int32), args.Error(1)
}

type mockCourseRepo struct{ mock.Mock }

func (m *mockCourseRepo) Create(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *mockCourseRepo) GetByID(ctx context.Context, id int32) (*domain.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Course), args.Error(1)
}

func (m *mockCourseRepo) Update(ctx context.Context, course *domain.Course) error {
	return m.Called(ctx, course).Error(0)
}

func (m *mockCourseRepo) LinkOrg(ctx context.Context, courseID, orgID int32) error {
	return m.Called(ctx, courseID, orgID).Error(0)
}

func (m *mockCourseRepo) CountPublishedByAdmin(ctx context.Context, adminID int32) (int32, error) {
	args := m.Called(ctx, adminID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockCourseRepo) IsOwnedByAdmin(ctx context.Context, courseID, adminID int32) (bool, error) {
	args := m.Called(ctx, courseID, adminID)
	return args.Bool(0), args.Error(1)
}

func (m *mockCourseRepo) AddEnrollment(ctx context.Context, courseID, employeeID int32) error {
	return m.Called(ctx, courseID, employeeID).Error(0)
}

func (m *mockCourseRepo) RemoveEnrollment(ctx context.Context, courseID, employeeID int32) error {
	return m.Called(ctx, courseID, employeeID).Error(0)
}

func (m *mockCourseRepo) CountActiveEnrolled(ctx context.Context, courseID int32) (int32, error) {
	args := m.Called(ctx, courseID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockCourseRepo) ListEnrolledCourseIDs(ctx context.Context, employeeID int32) ([]int32, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int32), args.Error(1)
}

type mockLimitsRepo struct{ mock.Mock }

func (m *mockLimitsRepo) Get(ctx context.Context, adminID int32) (*domain.AdminLimits, error) {
	args := m.Called(ctx, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminLimits), args.Error(1)
}

func (m *mockLimitsRepo) Save(ctx context.Context, limits *domain.AdminLimits) error {
	return m.Called(ctx, limits).Error(0)
}

type mockAccessRequestRepo struct{ mock.Mock }

func (m *mockAccessRequestRepo) Create(ctx context.Context, req *domain.CourseAccessRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAccessRequestRepo) GetByID(ctx context.Context, id int32) (*domain.CourseAccessRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseAccessRequest), args.Error(1)
}

func (m *mockAccessRequestRepo) GetByCourseEmployee(ctx context.Context, courseID, employeeID int32) (*domain.CourseAccessRequest, error) {
	args := m.Called(ctx, courseID, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseAccessRequest), args.Error(1)
}

func (m *mockAccessRequestRepo) Update(ctx context.Context, req *domain.CourseAccessRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockAccessRequestRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.CourseAccessRequest, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CourseAccessRequest), args.Error(1)
}

type mockRegistrationRequestRepo struct{ mock.Mock }

func (m *mockRegistrationRequestRepo) Create(ctx context.Context, req *domain.RegistrationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockRegistrationRequestRepo) GetByID(ctx context.Context, id int32) (*domain.RegistrationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RegistrationRequest), args.Error(1)
}

func (m *mockRegistrationRequestRepo) Update(ctx context.Context, req *domain.RegistrationRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockRegistrationRequestRepo) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.RegistrationRequest, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RegistrationRequest), args.Error(1)
}

type mockProgressRepo struct{ mock.Mock }

func (m *mockProgressRepo) Create(ctx context.Context, p *domain.CourseProgress) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProgressRepo) GetByUserCourse(ctx context.Context, userID, courseID int32) (*domain.CourseProgress, error) {
	args := m.Called(ctx, userID, courseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CourseProgress), args.Error(1)
}

func (m *mockProgressRepo) Update(ctx context.Context, p *domain.CourseProgress) error {
	return m.Called(ctx, p).Error(0)
}

type mockEmailService struct{ mock.Mock }

func (m *mockEmailService) SendAccessReviewNotification(ctx context.Context, email, name, courseTitle string, status domain.RequestStatus) error {
	return m.Called(ctx, email, name, courseTitle, status).Error(0)
}

func (m *mockEmailService) SendRegistrationReviewNotification(ctx context.Context, email, name string, status domain.RequestStatus) error {
	return m.Called(ctx, email, name, status).Error(0)
}

func (m *mockEmailService) SendPendingReviewReminder(ctx context.Context, email, name string, pendingCount int32) error {
	return m.Called(ctx, email, name, pendingCount).Error(0)
}

// testMocks bundles one mock per repository so tests can set expectations on
// the pieces they use.
type testMocks struct {
	users         *mockUserRepo
	orgs          *mockOrgRepo
	departments   *mockDepartmentRepo
	courses       *mockCourseRepo
	limits        *mockLimitsRepo
	access        *mockAccessRequestRepo
	registrations *mockRegistrationRequestRepo
	progress      *mockProgressRepo
}

func newTestRepos() (*repository.Repositories, *testMocks) {
	m := &testMocks{
		users:         &mockUserRepo{},
		orgs:          &mockOrgRepo{},
		departments:   &mockDepartmentRepo{},
		courses:       &mockCourseRepo{},
		limits:        &mockLimitsRepo{},
		access:        &mockAccessRequestRepo{},
		registrations: &mockRegistrationRequestRepo{},
		progress:      &mockProgressRepo{},
	}
	repos := &repository.Repositories{
		Users:                m.users,
		Orgs:                 m.orgs,
		Departments:          m.departments,
		Courses:              m.courses,
		Limits:               m.limits,
		AccessRequests:       m.access,
		RegistrationRequests: m.registrations,
		Progress:             m.progress,
	}
	return repos, m
}

// stubTxRunner hands the same mock-backed repositories to the callback, so a
// "transaction" in tests is just a direct call.
type stubTxRunner struct {
	repos *repository.Repositories
}

func (s *stubTxRunner) WithinTx(_ context.Context, fn func(r *repository.Repositories) error) error {
	return fn(s.repos)
}
