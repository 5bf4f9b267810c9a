package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/logger"
	"workculture-backend/internal/metrics"
	"workculture-backend/internal/repository"
)

type registrationService struct {
	repos    *repository.Repositories
	tx       repository.TxRunner
	emailSvc EmailService
}

func NewRegistrationService(repos *repository.Repositories, tx repository.TxRunner, emailSvc EmailService) RegistrationService {
	return &registrationService{repos: repos, tx: tx, emailSvc: emailSvc}
}

func (s *registrationService) Review(ctx context.Context, adminID, requestID int32, action domain.ReviewAction) (*domain.RegistrationRequest, error) {
	logger.EnterMethod("registrationService.Review", "adminID", adminID, "requestID", requestID, "action", action)

	req, err := s.repos.RegistrationRequests.GetByID(ctx, requestID)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Review", err, "requestID", requestID)
		return nil, fmt.Errorf("registration request %d: %w", requestID, err)
	}
	user, err := s.repos.Users.GetByID(ctx, req.UserID)
	if err != nil {
		logger.ExitMethodWithError("registrationService.Review", err, "requestID", requestID)
		return nil, fmt.Errorf("user %d: %w", req.UserID, err)
	}

	if err := s.authorizeReviewer(ctx, adminID, req, user); err != nil {
		return nil, err
	}

	target := targetStatus(action)
	if !canTransition(req.Status, target) {
		return nil, &domain.InvalidTransitionError{From: req.Status, To: target}
	}

	if action == domain.ReviewActionApprove && req.AccountType == domain.AccountTypeEmployee {
		if err := s.checkEmployeeQuotas(ctx, s.repos, adminID, user); err != nil {
			return nil, err
		}
	}

	err = s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		return applyRegistrationTransition(ctx, r, req, user, adminID, action)
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.Review", err, "requestID", requestID)
		return nil, err
	}

	s.notifyReviewed(ctx, req, user)
	metrics.RequestReviews.WithLabelValues("registration", string(action), "success").Inc()
	logger.ExitMethod("registrationService.Review", "requestID", requestID, "status", req.Status)
	return req, nil
}

// authorizeReviewer requires the owning admin for employee requests and a
// superadmin for individual requests.
func (s *registrationService) authorizeReviewer(ctx context.Context, reviewerID int32, req *domain.RegistrationRequest, user *domain.User) error {
	reviewer, err := s.repos.Users.GetByID(ctx, reviewerID)
	if err != nil {
		return fmt.Errorf("reviewer %d: %w", reviewerID, err)
	}
	switch req.AccountType {
	case domain.AccountTypeEmployee:
		if user.Employee == nil {
			return fmt.Errorf("employee request %d has no organization: %w", req.ID, domain.ErrNotFound)
		}
		org, err := s.repos.Orgs.GetByID(ctx, user.Employee.OrgID)
		if err != nil {
			return fmt.Errorf("organization %d: %w", user.Employee.OrgID, err)
		}
		if org.AdminID != reviewerID {
			return domain.ErrForbidden
		}
	case domain.AccountTypeIndividual:
		if reviewer.Role != domain.RoleSuperAdmin {
			return domain.ErrForbidden
		}
	}
	return nil
}

// checkEmployeeQuotas runs the two sequential checks for an employee
// approval: the admin's global employee ceiling, then the target org's
// ceiling.
func (s *registrationService) checkEmployeeQuotas(ctx context.Context, r *repository.Repositories, adminID int32, user *domain.User) error {
	global, err := evaluateQuota(ctx, r, adminID, domain.ActionAddEmployee, 0)
	if err != nil {
		return err
	}
	if !global.Allowed {
		return quotaError("employees", global)
	}
	perOrg, err := evaluateQuota(ctx, r, adminID, domain.ActionAddEmployeeToOrg, user.Employee.OrgID)
	if err != nil {
		return err
	}
	if !perOrg.Allowed {
		return quotaError(fmt.Sprintf("organization %d", user.Employee.OrgID), perOrg)
	}
	return nil
}

func applyRegistrationTransition(ctx context.Context, r *repository.Repositories, req *domain.RegistrationRequest, user *domain.User, adminID int32, action domain.ReviewAction) error {
	switch action {
	case domain.ReviewActionApprove:
		if user.AccountStatus != domain.AccountStatusActive {
			if err := r.Users.UpdateAccountStatus(ctx, user.ID, domain.AccountStatusActive); err != nil {
				return fmt.Errorf("activate user: %w", err)
			}
			user.AccountStatus = domain.AccountStatusActive
		}
		req.Status = domain.RequestStatusApproved
	case domain.ReviewActionReject:
		// Deactivate only accounts that a prior approval activated.
		if req.Status == domain.RequestStatusApproved && user.AccountStatus == domain.AccountStatusActive {
			if err := r.Users.UpdateAccountStatus(ctx, user.ID, domain.AccountStatusInactive); err != nil {
				return fmt.Errorf("deactivate user: %w", err)
			}
			user.AccountStatus = domain.AccountStatusInactive
		}
		req.Status = domain.RequestStatusRejected
	default:
		return fmt.Errorf("unknown review action %q", action)
	}

	now := time.Now()
	req.ReviewedBy = &adminID
	req.ReviewedOn = &now
	if err := r.RegistrationRequests.Update(ctx, req); err != nil {
		return fmt.Errorf("update registration request: %w", err)
	}
	return nil
}

// BulkReview mirrors the course-access bulk semantics: per-item skip/continue
// for business-rule failures inside one transaction, whole-batch abort only
// on infrastructure errors.
func (s *registrationService) BulkReview(ctx context.Context, adminID int32, requestIDs []int32, action domain.ReviewAction) (*domain.BulkResult, error) {
	logger.EnterMethod("registrationService.BulkReview", "adminID", adminID, "action", action, "count", len(requestIDs))

	result := &domain.BulkResult{}
	type reviewedPair struct {
		req  *domain.RegistrationRequest
		user *domain.User
	}
	var reviewed []reviewedPair

	target := targetStatus(action)

	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		for _, id := range requestIDs {
			req, err := r.RegistrationRequests.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemFailed, Reason: "request not found"})
					continue
				}
				return err
			}
			user, err := r.Users.GetByID(ctx, req.UserID)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemFailed, Reason: "user not found"})
					continue
				}
				return err
			}

			if err := s.authorizeReviewer(ctx, adminID, req, user); err != nil {
				if errors.Is(err, domain.ErrForbidden) {
					result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemFailed, Reason: "no access to request"})
					continue
				}
				return err
			}

			if !canTransition(req.Status, target) {
				result.Add(domain.BulkItemResult{
					RequestID: id,
					Outcome:   domain.BulkItemSkipped,
					Reason:    fmt.Sprintf("invalid state transition from %s to %s", req.Status, target),
				})
				continue
			}

			if action == domain.ReviewActionApprove && req.AccountType == domain.AccountTypeEmployee {
				if err := s.checkEmployeeQuotas(ctx, r, adminID, user); err != nil {
					if domain.IsQuotaExceeded(err) {
						result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemSkipped, Reason: err.Error()})
						continue
					}
					return err
				}
			}

			if err := applyRegistrationTransition(ctx, r, req, user, adminID, action); err != nil {
				return err
			}
			result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemSuccess, Status: req.Status})
			reviewed = append(reviewed, reviewedPair{req: req, user: user})
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("registrationService.BulkReview", err, "adminID", adminID, "action", action)
		return nil, err
	}

	for _, p := range reviewed {
		s.notifyReviewed(ctx, p.req, p.user)
	}
	metrics.RequestReviews.WithLabelValues("registration", string(action), "bulk").Add(float64(result.Succeeded))
	logger.ExitMethod("registrationService.BulkReview", "adminID", adminID, "action", action,
		"succeeded", result.Succeeded, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

func (s *registrationService) notifyReviewed(ctx context.Context, req *domain.RegistrationRequest, user *domain.User) {
	if err := s.emailSvc.SendRegistrationReviewNotification(ctx, user.Email, user.Name, req.Status); err != nil {
		logger.Warn("Failed to send registration notification", "user_id", user.ID, "error", err)
	}
}
