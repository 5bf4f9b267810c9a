package domain

// QuotaAction identifies the resource-creating action being evaluated.
type QuotaAction string

const (
	ActionCreateOrganization  QuotaAction = "CREATE_ORGANIZATION"
	ActionCreateDepartment    QuotaAction = "CREATE_DEPARTMENT"
	ActionCreateCourse        QuotaAction = "CREATE_COURSE"
	ActionAddEmployee         QuotaAction = "ADD_EMPLOYEE"
	ActionAddEmployeeToOrg    QuotaAction = "ADD_EMPLOYEE_TO_ORG"
	ActionAddEmployeeToCourse QuotaAction = "ADD_EMPLOYEE_TO_COURSE"
)

// QuotaDecision is the outcome of evaluating one action against live usage.
type QuotaDecision struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message"`
	Limit   int32  `json:"limit"`
	Current int32  `json:"current"`
}
