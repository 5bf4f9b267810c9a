package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/metrics"
	"workculture-backend/internal/repository"
)

type quotaEvaluator struct {
	repos *repository.Repositories
}

func NewQuotaEvaluator(repos *repository.Repositories) QuotaEvaluator {
	return &quotaEvaluator{repos: repos}
}

func (s *quotaEvaluator) Evaluate(ctx context.Context, adminID int32, action domain.QuotaAction, scopeID int32) (*domain.QuotaDecision, error) {
	d, err := evaluateQuota(ctx, s.repos, adminID, action, scopeID)
	if err != nil {
		return nil, err
	}
	metrics.QuotaDecisions.WithLabelValues(string(action), strconv.FormatBool(d.Allowed)).Inc()
	logger.Debug("Quota decision", "admin_id", adminID, "action", action, "allowed", d.Allowed, "current", d.Current, "limit", d.Limit)
	return d, nil
}

// evaluateQuota recomputes live usage for the action's scope and compares it
// against the admin's configured limit. Usage goes through a UsageCounter
// bound to the given repositories, so a caching counter can slot in behind
// the same interface; bulk review paths pass transaction-bound repos and the
// counter then sees their own uncommitted writes.
func evaluateQuota(ctx context.Context, r *repository.Repositories, adminID int32, action domain.QuotaAction, scopeID int32) (*domain.QuotaDecision, error) {
	usage := NewUsageCounter(r)

	admin, err := r.Users.GetByID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("admin %d: %w", adminID, err)
	}
	if admin.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("admin %d: %w", adminID, domain.ErrNotFound)
	}

	limits, err := r.Limits.Get(ctx, adminID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// No limits record yet: everything denies at zero.
			limits = &domain.AdminLimits{AdminID: adminID}
		} else {
			return nil, fmt.Errorf("load limits for admin %d: %w", adminID, err)
		}
	}

	var (
		limit   int32
		current int32
		scope   string
	)

	switch action {
	case domain.ActionCreateOrganization:
		limit = limits.MaxOrganizations
		scope = "organizations"
		current, err = usage.CountOrganizations(ctx, adminID)
	case domain.ActionCreateDepartment:
		limit = limits.MaxDepartments
		scope = "departments"
		current, err = usage.CountDepartments(ctx, adminID)
	case domain.ActionCreateCourse:
		limit = limits.MaxCourses
		scope = "published courses"
		current, err = usage.CountPublishedCourses(ctx, adminID)
	case domain.ActionAddEmployee:
		limit = limits.MaxEmployees
		scope = "employees"
		current, err = usage.CountActiveEmployees(ctx, adminID)
	case domain.ActionAddEmployeeToOrg:
		org, orgErr := r.Orgs.GetByID(ctx, scopeID)
		if orgErr != nil {
			return nil, fmt.Errorf("organization %d: %w", scopeID, orgErr)
		}
		// Orgs without an explicit allowance admit no employees.
		limit, _ = limits.OrgLimit(scopeID)
		scope = fmt.Sprintf("employees in organization %q", org.Name)
		current, err = usage.CountActiveEmployeesInOrg(ctx, scopeID)
	case domain.ActionAddEmployeeToCourse:
		limit = limits.CourseLimit(scopeID)
		scope = fmt.Sprintf("employees in course %d", scopeID)
		current, err = usage.CountActiveEmployeesInCourse(ctx, scopeID)
	default:
		return nil, fmt.Errorf("unknown quota action %q", action)
	}
	if err != nil {
		return nil, fmt.Errorf("count usage for %s: %w", scope, err)
	}

	d := &domain.QuotaDecision{Limit: limit, Current: current}
	if current < limit {
		d.Allowed = true
		d.Message = fmt.Sprintf("%s within limit (%d/%d)", scope, current, limit)
	} else {
		d.Message = fmt.Sprintf("%s limit reached (%d/%d)", scope, current, limit)
	}
	return d, nil
}

// quotaError converts a denying decision into the typed error carried by
// single-item operations.
func quotaError(scope string, d *domain.QuotaDecision) error {
	return &domain.QuotaExceededError{Scope: scope, Limit: d.Limit, Current: d.Current}
}
