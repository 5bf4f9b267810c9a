package service

import (
	"context"
	"errors"
	"testing"

	"workculture-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func adminUser(id int32) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleAdmin, AccountStatus: domain.AccountStatusActive}
}

func TestEvaluate_AllowsUnderLimit(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(1)).Return(adminUser(1), nil)
	m.limits.On("Get", mock.Anything, int32(1)).Return(&domain.AdminLimits{AdminID: 1, MaxOrganizations: 2}, nil)
	m.orgs.On("CountByAdmin", mock.Anything, int32(1)).Return(int32(1), nil)

	svc := NewQuotaEvaluator(repos)
	d, err := svc.Evaluate(context.Background(), 1, domain.ActionCreateOrganization, 0)

	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int32(2), d.Limit)
	assert.Equal(t, int32(1), d.Current)
	assert.Equal(t, "organizations within limit (1/2)", d.Message)
}

func TestEvaluate_DeniesAtLimit(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(1)).Return(adminUser(1), nil)
	m.limits.On("Get", mock.Anything, int32(1)).Return(&domain.AdminLimits{AdminID: 1, MaxOrganizations: 2}, nil)
	m.orgs.On("CountByAdmin", mock.Anything, int32(1)).Return(int32(2), nil)

	svc := NewQuotaEvaluator(repos)
	d, err := svc.Evaluate(context.Background(), 1, domain.ActionCreateOrganization, 0)

	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, "organizations limit reached (2/2)", d.Message)
}

func TestEvaluate_MissingLimitsRecordDeniesEverything(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(1)).Return(adminUser(1), nil)
	m.limits.On("Get", mock.Anything, int32(1)).Return(nil, domain.ErrNotFound)
	m.orgs.On("CountByAdmin", mock.Anything, int32(1)).Return(int32(0), nil)

	svc := NewQuotaEvaluator(repos)
	d, err := svc.Evaluate(context.Background(), 1, domain.ActionCreateOrganization, 0)

	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int32(0), d.Limit)
}

func TestEvaluate_OrgWithoutOverrideAdmitsNobody(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(1)).Return(adminUser(1), nil)
	m.limits.On("Get", mock.Anything, int32(1)).Return(&domain.AdminLimits{
		AdminID:      1,
		MaxEmployees: 100,
		OrgOverrides: []domain.OrgEmployeeLimit{{OrgID: 7, Limit: 10}},
	}, nil)
	m.orgs.On("GetByID", mock.Anything, int32(9)).Return(&domain.Organization{ID: 9, AdminID: 1, Name: "Sales"}, nil)
	m.users.On("CountActiveEmployeesByOrg", mock.Anything, int32(9)).Return(int32(0), nil)

	svc := NewQuotaEvaluator(repos)
	d, err := svc.Evaluate(context.Background(), 1, domain.ActionAddEmployeeToOrg, 9)

	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int32(0), d.Limit)
}

func TestEvaluate_CourseFallsBackToDefaultLimit(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(1)).Return(adminUser(1), nil)
	m.limits.On("Get", mock.Anything, int32(1)).Return(&domain.AdminLimits{
		AdminID:                      1,
		MaxEmployeesPerCourseDefault: 30,
		CourseOverrides:              []domain.CourseEmployeeLimit{{CourseID: 5, Limit: 3}},
	}, nil)
	m.courses.On("CountActiveEnrolled", mock.Anything, int32(8)).Return(int32(12), nil)

	svc := NewQuotaEvaluator(repos)
	d, err := svc.Evaluate(context.Background(), 1, domain.ActionAddEmployeeToCourse, 8)

	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, int32(30), d.Limit)
}

func TestEvaluate_CourseOverrideWins(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(1)).Return(adminUser(1), nil)
	m.limits.On("Get", mock.Anything, int32(1)).Return(&domain.AdminLimits{
		AdminID:                      1,
		MaxEmployeesPerCourseDefault: 30,
		CourseOverrides:              []domain.CourseEmployeeLimit{{CourseID: 5, Limit: 3}},
	}, nil)
	m.courses.On("CountActiveEnrolled", mock.Anything, int32(5)).Return(int32(3), nil)

	svc := NewQuotaEvaluator(repos)
	d, err := svc.Evaluate(context.Background(), 1, domain.ActionAddEmployeeToCourse, 5)

	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, int32(3), d.Limit)
}

func TestEvaluate_NonAdminRejected(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(2)).Return(&domain.User{ID: 2, Role: domain.RoleEmployee}, nil)

	svc := NewQuotaEvaluator(repos)
	_, err := svc.Evaluate(context.Background(), 2, domain.ActionCreateOrganization, 0)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
