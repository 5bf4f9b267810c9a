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

type accessRequestService struct {
	repos    *repository.Repositories
	tx       repository.TxRunner
	emailSvc EmailService
}

func NewAccessRequestService(repos *repository.Repositories, tx repository.TxRunner, emailSvc EmailService) AccessRequestService {
	return &accessRequestService{repos: repos, tx: tx, emailSvc: emailSvc}
}

func (s *accessRequestService) Request(ctx context.Context, employeeID, courseID int32) (*domain.CourseAccessRequest, error) {
	employee, err := s.repos.Users.GetByID(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("employee %d: %w", employeeID, err)
	}
	if employee.Role != domain.RoleEmployee {
		return nil, fmt.Errorf("user %d is not an employee: %w", employeeID, domain.ErrForbidden)
	}
	if _, err := s.repos.Courses.GetByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, err)
	}

	// One request per (employee, course) pair: a duplicate is refused at
	// creation, never modeled as a transition.
	if _, err := s.repos.AccessRequests.GetByCourseEmployee(ctx, courseID, employeeID); err == nil {
		return nil, &domain.ValidationError{
			Field:  "course_access_request",
			Reason: fmt.Sprintf("request for course %d by employee %d already exists", courseID, employeeID),
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	req := &domain.CourseAccessRequest{
		EmployeeID:  employeeID,
		CourseID:    courseID,
		Status:      domain.RequestStatusPending,
		RequestedOn: time.Now(),
	}
	if err := s.repos.AccessRequests.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("create access request: %w", err)
	}
	return req, nil
}

func (s *accessRequestService) Review(ctx context.Context, adminID, courseID, employeeID int32, action domain.ReviewAction) (*domain.CourseAccessRequest, error) {
	logger.EnterMethod("accessRequestService.Review", "adminID", adminID, "courseID", courseID, "employeeID", employeeID, "action", action)

	req, err := s.repos.AccessRequests.GetByCourseEmployee(ctx, courseID, employeeID)
	if err != nil {
		logger.ExitMethodWithError("accessRequestService.Review", err, "courseID", courseID, "employeeID", employeeID)
		return nil, fmt.Errorf("access request for course %d, employee %d: %w", courseID, employeeID, err)
	}

	owned, err := s.repos.Courses.IsOwnedByAdmin(ctx, courseID, adminID)
	if err != nil {
		return nil, fmt.Errorf("check course ownership: %w", err)
	}
	if !owned {
		return nil, domain.ErrForbidden
	}

	if req.Status == domain.RequestStatusRevoked {
		return nil, &domain.InvalidTransitionError{From: req.Status, To: targetStatus(action)}
	}

	if action == domain.ReviewActionApprove {
		decision, err := evaluateQuota(ctx, s.repos, adminID, domain.ActionAddEmployeeToCourse, courseID)
		if err != nil {
			return nil, err
		}
		if !decision.Allowed {
			return nil, quotaError(fmt.Sprintf("course %d", courseID), decision)
		}
	}

	err = s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		return applyAccessTransition(ctx, r, req, adminID, action)
	})
	if err != nil {
		logger.ExitMethodWithError("accessRequestService.Review", err, "courseID", courseID, "employeeID", employeeID)
		return nil, err
	}

	s.notifyReviewed(ctx, req)
	metrics.RequestReviews.WithLabelValues("course_access", string(action), "success").Inc()
	logger.ExitMethod("accessRequestService.Review", "courseID", courseID, "employeeID", employeeID, "status", req.Status)
	return req, nil
}

func (s *accessRequestService) Revoke(ctx context.Context, adminID, courseID, employeeID int32) (*domain.CourseAccessRequest, error) {
	logger.EnterMethod("accessRequestService.Revoke", "adminID", adminID, "courseID", courseID, "employeeID", employeeID)

	req, err := s.repos.AccessRequests.GetByCourseEmployee(ctx, courseID, employeeID)
	if err != nil {
		logger.ExitMethodWithError("accessRequestService.Revoke", err, "courseID", courseID, "employeeID", employeeID)
		return nil, fmt.Errorf("access request for course %d, employee %d: %w", courseID, employeeID, err)
	}

	owned, err := s.repos.Courses.IsOwnedByAdmin(ctx, courseID, adminID)
	if err != nil {
		return nil, fmt.Errorf("check course ownership: %w", err)
	}
	if !owned {
		return nil, domain.ErrForbidden
	}
	if req.Status != domain.RequestStatusApproved {
		return nil, &domain.InvalidTransitionError{From: req.Status, To: domain.RequestStatusRevoked}
	}

	err = s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		if err := r.Courses.RemoveEnrollment(ctx, req.CourseID, req.EmployeeID); err != nil {
			return fmt.Errorf("remove enrollment: %w", err)
		}
		now := time.Now()
		req.Status = domain.RequestStatusRevoked
		req.ReviewedBy = &adminID
		req.ReviewedOn = &now
		return r.AccessRequests.Update(ctx, req)
	})
	if err != nil {
		logger.ExitMethodWithError("accessRequestService.Revoke", err, "courseID", courseID, "employeeID", employeeID)
		return nil, err
	}

	s.notifyReviewed(ctx, req)
	metrics.RequestReviews.WithLabelValues("course_access", "revoke", "success").Inc()
	logger.ExitMethod("accessRequestService.Revoke", "courseID", courseID, "employeeID", employeeID)
	return req, nil
}

// applyAccessTransition mutates the request plus the enrollment membership
// inside the caller's transaction. Membership pushes are idempotent, so a
// repeated approval is a no-op on membership.
func applyAccessTransition(ctx context.Context, r *repository.Repositories, req *domain.CourseAccessRequest, adminID int32, action domain.ReviewAction) error {
	switch action {
	case domain.ReviewActionApprove:
		if err := r.Courses.AddEnrollment(ctx, req.CourseID, req.EmployeeID); err != nil {
			return fmt.Errorf("add enrollment: %w", err)
		}
		req.Status = domain.RequestStatusApproved
	case domain.ReviewActionReject:
		// Undo membership only when a prior approval granted it.
		if req.Status == domain.RequestStatusApproved {
			if err := r.Courses.RemoveEnrollment(ctx, req.CourseID, req.EmployeeID); err != nil {
				return fmt.Errorf("remove enrollment: %w", err)
			}
		}
		req.Status = domain.RequestStatusRejected
	default:
		return fmt.Errorf("unknown review action %q", action)
	}

	now := time.Now()
	req.ReviewedBy = &adminID
	req.ReviewedOn = &now
	if err := r.AccessRequests.Update(ctx, req); err != nil {
		return fmt.Errorf("update access request: %w", err)
	}
	return nil
}

// BulkReview processes every id inside one transaction. Business-rule
// failures (not found, no access, quota denied, already in target state) are
// recorded per item and never abort the batch; only infrastructure errors
// roll the whole transaction back.
func (s *accessRequestService) BulkReview(ctx context.Context, adminID int32, requestIDs []int32, action domain.ReviewAction) (*domain.BulkResult, error) {
	logger.EnterMethod("accessRequestService.BulkReview", "adminID", adminID, "action", action, "count", len(requestIDs))

	result := &domain.BulkResult{}
	var reviewed []*domain.CourseAccessRequest

	err := s.tx.WithinTx(ctx, func(r *repository.Repositories) error {
		for _, id := range requestIDs {
			req, err := r.AccessRequests.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemFailed, Reason: "request not found"})
					continue
				}
				return err
			}

			owned, err := r.Courses.IsOwnedByAdmin(ctx, req.CourseID, adminID)
			if err != nil {
				return err
			}
			if !owned {
				result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemFailed, Reason: "no access to course"})
				continue
			}

			if reason := bulkSkipReason(req.Status, action); reason != "" {
				result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemSkipped, Reason: reason})
				continue
			}

			if action == domain.ReviewActionApprove {
				// Evaluated against the transaction's own writes, so item N
				// sees enrollments committed by items 1..N-1.
				decision, err := evaluateQuota(ctx, r, adminID, domain.ActionAddEmployeeToCourse, req.CourseID)
				if err != nil {
					return err
				}
				if !decision.Allowed {
					result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemSkipped, Reason: decision.Message})
					continue
				}
			}

			if err := applyAccessTransition(ctx, r, req, adminID, action); err != nil {
				return err
			}
			result.Add(domain.BulkItemResult{RequestID: id, Outcome: domain.BulkItemSuccess, Status: req.Status})
			reviewed = append(reviewed, req)
		}
		return nil
	})
	if err != nil {
		logger.ExitMethodWithError("accessRequestService.BulkReview", err, "adminID", adminID, "action", action)
		return nil, err
	}

	for _, req := range reviewed {
		s.notifyReviewed(ctx, req)
	}
	metrics.RequestReviews.WithLabelValues("course_access", string(action), "bulk").Add(float64(result.Succeeded))
	logger.ExitMethod("accessRequestService.BulkReview", "adminID", adminID, "action", action,
		"succeeded", result.Succeeded, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// notifyReviewed fires the post-commit notification. Delivery failures are
// logged and dropped; they must never roll back the review.
func (s *accessRequestService) notifyReviewed(ctx context.Context, req *domain.CourseAccessRequest) {
	employee, err := s.repos.Users.GetByID(ctx, req.EmployeeID)
	if err != nil {
		logger.Warn("Skipping review notification", "employee_id", req.EmployeeID, "error", err)
		return
	}
	course, err := s.repos.Courses.GetByID(ctx, req.CourseID)
	if err != nil {
		logger.Warn("Skipping review notification", "course_id", req.CourseID, "error", err)
		return
	}
	if err := s.emailSvc.SendAccessReviewNotification(ctx, employee.Email, employee.Name, course.Title, req.Status); err != nil {
		logger.Warn("Failed to send review notification", "employee_id", req.EmployeeID, "error", err)
	}
}
