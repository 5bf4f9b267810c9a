package domain

import "time"

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleEmployee   Role = "EMPLOYEE"
	RoleIndividual Role = "INDIVIDUAL"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "ACTIVE"
	AccountStatusInactive AccountStatus = "INACTIVE"
)

type User struct {
	ID                  int32         `json:"id"`
	Email               string        `json:"email"`
	PasswordHash        string        `json:"-"`
	Name                string        `json:"name"`
	Role                Role          `json:"role"`
	AccountStatus       AccountStatus `json:"account_status"`
	CreatedBySuperadmin *int32        `json:"created_by_superadmin,omitempty"` // set for admins only
	Employee            *EmployeeData `json:"employee,omitempty"`              // set for employees only
	CreatedOn           time.Time     `json:"created_on"`
	UpdatedOn           time.Time     `json:"updated_on"`
}

// EmployeeData carries the org/department attribution of an employee account.
type EmployeeData struct {
	OrgID        int32  `json:"org_id"`
	DepartmentID *int32 `json:"department_id,omitempty"`
	JobTitle     string `json:"job_title,omitempty"`
}

func (u *User) IsActiveEmployee() bool {
	return u.Role == RoleEmployee && u.AccountStatus == AccountStatusActive
}
