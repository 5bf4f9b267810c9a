package postgres

import (
	"context"
	"errors"
	"testing"

	"workculture-backend/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitsGet_AssemblesOverrides(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT admin_id, max_organizations`).
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{
			"admin_id", "max_organizations", "max_departments", "max_courses", "max_employees", "max_employees_per_course_default",
		}).AddRow(10, 2, 5, 3, 50, 30))
	mock.ExpectQuery(`SELECT org_id, employee_limit FROM admin_org_limits`).
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"org_id", "employee_limit"}).AddRow(7, 10).AddRow(8, 4))
	mock.ExpectQuery(`SELECT course_id, employee_limit FROM admin_course_limits`).
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"course_id", "employee_limit"}).AddRow(5, 12))

	repo := NewLimitsRepository(db)
	limits, err := repo.Get(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int32(2), limits.MaxOrganizations)
	require.Len(t, limits.OrgOverrides, 2)
	assert.Equal(t, domain.OrgEmployeeLimit{OrgID: 7, Limit: 10}, limits.OrgOverrides[0])
	require.Len(t, limits.CourseOverrides, 1)
	assert.Equal(t, domain.CourseEmployeeLimit{CourseID: 5, Limit: 12}, limits.CourseOverrides[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLimitsGet_MissingRecordIsNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT admin_id, max_organizations`).
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"admin_id"}))

	repo := NewLimitsRepository(db)
	_, err = repo.Get(context.Background(), 10)

	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLimitsSave_UpsertsScalarsAndOverrides(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO admin_limits`).
		WithArgs(int32(10), int32(2), int32(5), int32(3), int32(50), int32(30)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO admin_org_limits`).
		WithArgs(int32(10), int32(7), int32(10)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO admin_course_limits`).
		WithArgs(int32(10), int32(5), int32(12)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewLimitsRepository(db)
	err = repo.Save(context.Background(), &domain.AdminLimits{
		AdminID:                      10,
		MaxOrganizations:             2,
		MaxDepartments:               5,
		MaxCourses:                   3,
		MaxEmployees:                 50,
		MaxEmployeesPerCourseDefault: 30,
		OrgOverrides:                 []domain.OrgEmployeeLimit{{OrgID: 7, Limit: 10}},
		CourseOverrides:              []domain.CourseEmployeeLimit{{CourseID: 5, Limit: 12}},
	})

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
