package service

import (
	"workculture-backend/internal/domain"
)

// Both request kinds share one transition table: pending moves to approved or
// rejected, and a reviewed request can be re-reviewed the other way. REVOKED
// is terminal and reachable only from APPROVED via the course-access revoke
// path, which is handled outside this table.
func canTransition(from, to domain.RequestStatus) bool {
	switch from {
	case domain.RequestStatusPending:
		return to == domain.RequestStatusApproved || to == domain.RequestStatusRejected
	case domain.RequestStatusApproved:
		return to == domain.RequestStatusRejected
	case domain.RequestStatusRejected:
		return to == domain.RequestStatusApproved
	default:
		return false
	}
}

func targetStatus(action domain.ReviewAction) domain.RequestStatus {
	if action == domain.ReviewActionApprove {
		return domain.RequestStatusApproved
	}
	return domain.RequestStatusRejected
}

// bulkSkipReason classifies a request whose current status already matches
// (or conflicts with) the requested bulk action. Empty means the item should
// be processed.
func bulkSkipReason(current domain.RequestStatus, action domain.ReviewAction) string {
	switch action {
	case domain.ReviewActionApprove:
		if current != domain.RequestStatusPending {
			return "already processed"
		}
	case domain.ReviewActionReject:
		if current == domain.RequestStatusRejected {
			return "already rejected"
		}
		if current == domain.RequestStatusRevoked {
			return "already processed"
		}
	}
	return ""
}
