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

func ptr32(v int32) *int32 { return &v }

func adminCreatedBy(adminID, superadminID int32) *domain.User {
	return &domain.User{ID: adminID, Role: domain.RoleAdmin, CreatedBySuperadmin: &superadminID}
}

func TestApplyLimits_OnlyCreatorMayEdit(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	_, err := svc.ApplyLimits(context.Background(), 2, 10, &domain.LimitsUpdate{MaxOrganizations: ptr32(5)})

	assert.True(t, errors.Is(err, domain.ErrForbidden))
	m.limits.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApplyLimits_RejectsLimitBelowUsage(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(&domain.AdminLimits{AdminID: 10, MaxOrganizations: 5}, nil)
	m.orgs.On("CountByAdmin", mock.Anything, int32(10)).Return(int32(3), nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	_, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{MaxOrganizations: ptr32(2)})

	assert.True(t, domain.IsValidationError(err))
	m.limits.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApplyLimits_RejectsNegativeLimit(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(&domain.AdminLimits{AdminID: 10}, nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	_, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{MaxCourses: ptr32(-1)})

	assert.True(t, domain.IsValidationError(err))
	m.limits.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestApplyLimits_AppliesScalarsAndCreatesRecordLazily(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(nil, domain.ErrNotFound)
	m.orgs.On("CountByAdmin", mock.Anything, int32(10)).Return(int32(0), nil)
	m.users.On("CountActiveEmployeesByAdmin", mock.Anything, int32(10)).Return(int32(0), nil)
	m.limits.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	limits, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{
		MaxOrganizations: ptr32(3),
		MaxEmployees:     ptr32(50),
	})

	require.NoError(t, err)
	assert.Equal(t, int32(3), limits.MaxOrganizations)
	assert.Equal(t, int32(50), limits.MaxEmployees)
	assert.Equal(t, int32(0), limits.MaxCourses)
	m.limits.AssertCalled(t, "Save", mock.Anything, limits)
}

func TestApplyLimits_OrgOverrideValidatedAgainstUsage(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(&domain.AdminLimits{AdminID: 10}, nil)
	m.orgs.On("GetByID", mock.Anything, int32(7)).Return(&domain.Organization{ID: 7, AdminID: 10, Name: "Sales"}, nil)
	m.users.On("CountActiveEmployeesByOrg", mock.Anything, int32(7)).Return(int32(6), nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	_, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{
		OrgOverrides: []domain.OrgEmployeeLimit{{OrgID: 7, Limit: 4}},
	})

	assert.True(t, domain.IsValidationError(err))
}

func TestApplyLimits_OrgOverrideMustBelongToAdmin(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(&domain.AdminLimits{AdminID: 10}, nil)
	m.orgs.On("GetByID", mock.Anything, int32(7)).Return(&domain.Organization{ID: 7, AdminID: 99, Name: "Other"}, nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	_, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{
		OrgOverrides: []domain.OrgEmployeeLimit{{OrgID: 7, Limit: 4}},
	})

	assert.True(t, domain.IsValidationError(err))
}

func TestApplyLimits_RepeatedOverrideEditYieldsOneEntry(t *testing.T) {
	repos, m := newTestRepos()
	stored := &domain.AdminLimits{
		AdminID:      10,
		OrgOverrides: []domain.OrgEmployeeLimit{{OrgID: 7, Limit: 5}},
	}
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(stored, nil)
	m.orgs.On("GetByID", mock.Anything, int32(7)).Return(&domain.Organization{ID: 7, AdminID: 10, Name: "Sales"}, nil)
	m.users.On("CountActiveEmployeesByOrg", mock.Anything, int32(7)).Return(int32(2), nil)
	m.limits.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	limits, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{
		OrgOverrides: []domain.OrgEmployeeLimit{{OrgID: 7, Limit: 8}},
	})

	require.NoError(t, err)
	require.Len(t, limits.OrgOverrides, 1)
	assert.Equal(t, int32(8), limits.OrgOverrides[0].Limit)
}

func TestApplyLimits_CourseDefaultHasNoUsageFloor(t *testing.T) {
	repos, m := newTestRepos()
	m.users.On("GetByID", mock.Anything, int32(10)).Return(adminCreatedBy(10, 1), nil)
	m.limits.On("Get", mock.Anything, int32(10)).Return(&domain.AdminLimits{AdminID: 10, MaxEmployeesPerCourseDefault: 30}, nil)
	m.limits.On("Save", mock.Anything, mock.Anything).Return(nil)

	svc := NewLimitsService(repos, &stubTxRunner{repos: repos})
	limits, err := svc.ApplyLimits(context.Background(), 1, 10, &domain.LimitsUpdate{
		MaxEmployeesPerCourseDefault: ptr32(0),
	})

	require.NoError(t, err)
	assert.Equal(t, int32(0), limits.MaxEmployeesPerCourseDefault)
}
