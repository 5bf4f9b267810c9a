package service

import (
	"context"
	"fmt"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type tenantService struct {
	repos *repository.Repositories
	tx    repository.TxRunner
	quota QuotaEvaluator
}

func NewTenantService(repos *repository.Repositories, tx repository.TxRunner, quota QuotaEvaluator) TenantService {
	return &tenantService{repos: repos, tx: tx, quota: quota}
}

func (s *tenantService) CreateOrganization(ctx context.Context, adminID int32, name, description string) (*domain.Organization, error) {
	decision, err := s.quota.Evaluate(ctx, adminID, domain.ActionCreateOrganization, 0)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quotaError("organizations", decision)
	}

	org := &domain.Organization{AdminID: adminID, Name: name, Description: description}
	if err := s.repos.Orgs.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organization: %w", err)
	}
	logger.Info("Organization created", "admin_id", adminID, "org_id", org.ID)
	return org, nil
}

func (s *tenantService) CreateDepartment(ctx context.Context, adminID, orgID int32, name string) (*domain.Department, error) {
	org, err := s.repos.Orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("organization %d: %w", orgID, err)
	}
	if org.AdminID != adminID {
		return nil, domain.ErrForbidden
	}

	decision, err := s.quota.Evaluate(ctx, adminID, domain.ActionCreateDepartment, 0)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quotaError("departments", decision)
	}

	dept := &domain.Department{OrgID: orgID, Name: name}
	if err := s.repos.Departments.Create(ctx, dept); err != nil {
		return nil, fmt.Errorf("create department: %w", err)
	}
	return dept, nil
}

// CreateCourse creates a draft. Drafts never count against the course quota,
// so no check happens until publishing.
func (s *tenantService) CreateCourse(ctx context.Context, adminID int32, course *domain.Course, linkOrgIDs []int32) (*domain.Course, error) {
	course.AdminID = adminID
	course.Status = domain.CourseStatusDraft

	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		if err := r.Courses.Create(ctx, course); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		for _, orgID := range linkOrgIDs {
			org, err := r.Orgs.GetByID(ctx, orgID)
			if err != nil {
				return fmt.Errorf("organization %d: %w", orgID, err)
			}
			if org.AdminID != adminID {
				return fmt.Errorf("organization %d: %w", orgID, domain.ErrForbidden)
			}
			if err := r.Courses.LinkOrg(ctx, course.ID, orgID); err != nil {
				return fmt.Errorf("link organization %d: %w", orgID, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	course.LinkedOrgIDs = linkOrgIDs
	return course, nil
}

func (s *tenantService) PublishCourse(ctx context.Context, adminID, courseID int32) (*domain.Course, error) {
	course, err := s.repos.Courses.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, err)
	}
	if course.AdminID != adminID {
		return nil, domain.ErrForbidden
	}
	if course.Status == domain.CourseStatusPublished {
		return course, nil
	}

	decision, err := s.quota.Evaluate(ctx, adminID, domain.ActionCreateCourse, 0)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		return nil, quotaError("courses", decision)
	}

	course.Status = domain.CourseStatusPublished
	if err := s.repos.Courses.Update(ctx, course); err != nil {
		return nil, fmt.Errorf("publish course: %w", err)
	}
	logger.Info("Course published", "admin_id", adminID, "course_id", courseID)
	return course, nil
}

// AddEmployee creates an active employee account directly under an admin's
// org, checking the global employee ceiling and then the org ceiling.
func (s *tenantService) AddEmployee(ctx context.Context, adminID, orgID int32, departmentID *int32, name, email, jobTitle, password string) (*domain.User, error) {
	org, err := s.repos.Orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("organization %d: %w", orgID, err)
	}
	if org.AdminID != adminID {
		return nil, domain.ErrForbidden
	}

	global, err := s.quota.Evaluate(ctx, adminID, domain.ActionAddEmployee, 0)
	if err != nil {
		return nil, err
	}
	if !global.Allowed {
		return nil, quotaError("employees", global)
	}
	perOrg, err := s.quota.Evaluate(ctx, adminID, domain.ActionAddEmployeeToOrg, orgID)
	if err != nil {
		return nil, err
	}
	if !perOrg.Allowed {
		return nil, quotaError(fmt.Sprintf("organization %q", org.Name), perOrg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Email:         email,
		PasswordHash:  string(hash),
		Name:          name,
		Role:          domain.RoleEmployee,
		AccountStatus: domain.AccountStatusActive,
		Employee: &domain.EmployeeData{
			OrgID:        orgID,
			DepartmentID: departmentID,
			JobTitle:     jobTitle,
		},
		CreatedOn: time.Now(),
	}
	if err := s.repos.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	logger.Info("Employee added", "admin_id", adminID, "org_id", orgID, "user_id", user.ID)
	return user, nil
}
