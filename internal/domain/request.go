package domain

import "time"

type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "PENDING"
	RequestStatusApproved RequestStatus = "APPROVED"
	RequestStatusRejected RequestStatus = "REJECTED"
	// RequestStatusRevoked is a legacy terminal status for course access:
	// reachable only from APPROVED, equivalent to a rejection for membership
	// purposes but recorded distinctly.
	RequestStatusRevoked RequestStatus = "REVOKED"
)

type ReviewAction string

const (
	ReviewActionApprove ReviewAction = "APPROVE"
	ReviewActionReject  ReviewAction = "REJECT"
)

// CourseAccessRequest is created once per (employee, course) pair by employee
// self-service; a duplicate request while one exists is refused at creation.
type CourseAccessRequest struct {
	ID          int32         `json:"id"`
	EmployeeID  int32         `json:"employee_id"`
	CourseID    int32         `json:"course_id"`
	Status      RequestStatus `json:"status"`
	RequestedOn time.Time     `json:"requested_on"`
	ReviewedBy  *int32        `json:"reviewed_by,omitempty"`
	ReviewedOn  *time.Time    `json:"reviewed_on,omitempty"`
}

type AccountType string

const (
	AccountTypeEmployee   AccountType = "EMPLOYEE"
	AccountTypeIndividual AccountType = "INDIVIDUAL"
)

// RegistrationRequest is created exactly once per signup, in the same
// transaction as the user record.
type RegistrationRequest struct {
	ID          int32         `json:"id"`
	UserID      int32         `json:"user_id"`
	AccountType AccountType   `json:"account_type"`
	Reference   string        `json:"reference"` // opaque code surfaced to the applicant
	Status      RequestStatus `json:"status"`
	RequestedOn time.Time     `json:"requested_on"`
	ReviewedBy  *int32        `json:"reviewed_by,omitempty"`
	ReviewedOn  *time.Time    `json:"reviewed_on,omitempty"`
}
