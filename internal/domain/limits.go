package domain

// AdminLimits is the quota record owned by an admin and mutated only by the
// superadmin that created the admin.
type AdminLimits struct {
	AdminID                      int32                 `json:"admin_id"`
	MaxOrganizations             int32                 `json:"max_organizations"`
	MaxDepartments               int32                 `json:"max_departments"`
	MaxCourses                   int32                 `json:"max_courses"`
	MaxEmployees                 int32                 `json:"max_employees"`
	MaxEmployeesPerCourseDefault int32                 `json:"max_employees_per_course_default"`
	OrgOverrides                 []OrgEmployeeLimit    `json:"org_overrides,omitempty"`
	CourseOverrides              []CourseEmployeeLimit `json:"course_overrides,omitempty"`
}

// OrgEmployeeLimit caps active employees inside one organization. An org with
// no entry admits no employees.
type OrgEmployeeLimit struct {
	OrgID int32 `json:"org_id"`
	Limit int32 `json:"limit"`
}

// CourseEmployeeLimit caps enrollment in one course. A course with no entry
// falls back to MaxEmployeesPerCourseDefault.
type CourseEmployeeLimit struct {
	CourseID int32 `json:"course_id"`
	Limit    int32 `json:"limit"`
}

// OrgLimit returns the override for orgID, or (0, false) when absent.
func (l *AdminLimits) OrgLimit(orgID int32) (int32, bool) {
	for _, e := range l.OrgOverrides {
		if e.OrgID == orgID {
			return e.Limit, true
		}
	}
	return 0, false
}

// CourseLimit returns the override for courseID, falling back to the
// per-course default when absent.
func (l *AdminLimits) CourseLimit(courseID int32) int32 {
	for _, e := range l.CourseOverrides {
		if e.CourseID == courseID {
			return e.Limit
		}
	}
	return l.MaxEmployeesPerCourseDefault
}

// LimitsUpdate is a partial edit of an AdminLimits record. Nil scalar fields
// are left untouched; override entries are upserted by scope id.
type LimitsUpdate struct {
	MaxOrganizations             *int32                `json:"max_organizations,omitempty"`
	MaxDepartments               *int32                `json:"max_departments,omitempty"`
	MaxCourses                   *int32                `json:"max_courses,omitempty"`
	MaxEmployees                 *int32                `json:"max_employees,omitempty"`
	MaxEmployeesPerCourseDefault *int32                `json:"max_employees_per_course_default,omitempty"`
	OrgOverrides                 []OrgEmployeeLimit    `json:"org_overrides,omitempty"`
	CourseOverrides              []CourseEmployeeLimit `json:"course_overrides,omitempty"`
}
