package http

import (
	"net/http"
	"strconv"

	"workculture-backend/internal/domain"
	"workculture-backend/internal/service"

	"github.com/gorilla/mux"
)

// API bundles the services exposed over HTTP.
type API struct {
	Auth         service.AuthService
	Limits       service.LimitsService
	Quota        service.QuotaEvaluator
	Usage        service.UsageCounter
	Tenant       service.TenantService
	Access       service.AccessRequestService
	Registration service.RegistrationService
	Progress     service.ProgressService
}

func pathID(r *http.Request, name string) (int32, bool) {
	v, err := strconv.ParseInt(mux.Vars(r)[name], 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

// --- auth ---

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	OrgID        int32  `json:"org_id,omitempty"`
	DepartmentID *int32 `json:"department_id,omitempty"`
}

type signupResponse struct {
	User      *domain.User `json:"user"`
	Reference string       `json:"reference"`
}

func (a *API) handleSignupEmployee(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, reg, err := a.Auth.SignupEmployee(r.Context(), req.Name, req.Email, req.Password, req.OrgID, req.DepartmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{User: user, Reference: reg.Reference})
}

func (a *API) handleSignupIndividual(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, reg, err := a.Auth.SignupIndividual(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, signupResponse{User: user, Reference: reg.Reference})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	token, user, err := a.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": user})
}

// --- limits ---

func (a *API) handleGetLimits(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleSuperAdmin, domain.RoleAdmin)
	if claims == nil {
		return
	}
	adminID, ok := pathID(r, "adminID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid admin id"})
		return
	}
	// Admins may only read their own limits.
	if claims.Role == string(domain.RoleAdmin) && claims.UserID != adminID {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}
	limits, err := a.Limits.GetLimits(r.Context(), adminID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

func (a *API) handleUpdateLimits(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleSuperAdmin)
	if claims == nil {
		return
	}
	adminID, ok := pathID(r, "adminID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid admin id"})
		return
	}
	var update domain.LimitsUpdate
	if !decodeBody(w, r, &update) {
		return
	}
	limits, err := a.Limits.ApplyLimits(r.Context(), claims.UserID, adminID, &update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, limits)
}

// handleQuotaPreview evaluates a quota action without performing it.
func (a *API) handleQuotaPreview(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	action := domain.QuotaAction(r.URL.Query().Get("action"))
	var scopeID int32
	if raw := r.URL.Query().Get("scope_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid scope_id"})
			return
		}
		scopeID = int32(v)
	}
	decision, err := a.Quota.Evaluate(r.Context(), claims.UserID, action, scopeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

type usageResponse struct {
	Organizations    int32 `json:"organizations"`
	Departments      int32 `json:"departments"`
	PublishedCourses int32 `json:"published_courses"`
	ActiveEmployees  int32 `json:"active_employees"`
}

// handleGetUsage reports the live counts that quota decisions compare
// against, recomputed on every call.
func (a *API) handleGetUsage(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleSuperAdmin, domain.RoleAdmin)
	if claims == nil {
		return
	}
	adminID, ok := pathID(r, "adminID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid admin id"})
		return
	}
	if claims.Role == string(domain.RoleAdmin) && claims.UserID != adminID {
		writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}

	var resp usageResponse
	var err error
	if resp.Organizations, err = a.Usage.CountOrganizations(r.Context(), adminID); err != nil {
		writeError(w, err)
		return
	}
	if resp.Departments, err = a.Usage.CountDepartments(r.Context(), adminID); err != nil {
		writeError(w, err)
		return
	}
	if resp.PublishedCourses, err = a.Usage.CountPublishedCourses(r.Context(), adminID); err != nil {
		writeError(w, err)
		return
	}
	if resp.ActiveEmployees, err = a.Usage.CountActiveEmployees(r.Context(), adminID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// --- tenant ---

type createOrgRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *API) handleCreateOrganization(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	var req createOrgRequest
	if !decodeBody(w, r, &req) {
		return
	}
	org, err := a.Tenant.CreateOrganization(r.Context(), claims.UserID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, org)
}

func (a *API) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	orgID, ok := pathID(r, "orgID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid org id"})
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	dept, err := a.Tenant.CreateDepartment(r.Context(), claims.UserID, orgID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dept)
}

type addEmployeeRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	JobTitle     string `json:"job_title"`
	DepartmentID *int32 `json:"department_id,omitempty"`
}

func (a *API) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	orgID, ok := pathID(r, "orgID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid org id"})
		return
	}
	var req addEmployeeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	user, err := a.Tenant.AddEmployee(r.Context(), claims.UserID, orgID, req.DepartmentID, req.Name, req.Email, req.JobTitle, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

type createCourseRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	TopicCount      int32   `json:"topic_count"`
	SubtopicCount   int32   `json:"subtopic_count"`
	AssignmentCount int32   `json:"assignment_count"`
	QuestionCount   int32   `json:"question_count"`
	OrgIDs          []int32 `json:"org_ids,omitempty"`
}

func (a *API) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	var req createCourseRequest
	if !decodeBody(w, r, &req) {
		return
	}
	course := &domain.Course{
		Title:           req.Title,
		Description:     req.Description,
		TopicCount:      req.TopicCount,
		SubtopicCount:   req.SubtopicCount,
		AssignmentCount: req.AssignmentCount,
		QuestionCount:   req.QuestionCount,
	}
	created, err := a.Tenant.CreateCourse(r.Context(), claims.UserID, course, req.OrgIDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (a *API) handlePublishCourse(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	courseID, ok := pathID(r, "courseID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid course id"})
		return
	}
	course, err := a.Tenant.PublishCourse(r.Context(), claims.UserID, courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// --- course access requests ---

func (a *API) handleRequestAccess(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleEmployee)
	if claims == nil {
		return
	}
	courseID, ok := pathID(r, "courseID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid course id"})
		return
	}
	req, err := a.Access.Request(r.Context(), claims.UserID, courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}

type reviewRequest struct {
	Action domain.ReviewAction `json:"action"`
}

func (a *API) handleReviewAccess(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	courseID, okC := pathID(r, "courseID")
	employeeID, okE := pathID(r, "employeeID")
	if !okC || !okE {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := a.Access.Review(r.Context(), claims.UserID, courseID, employeeID, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	courseID, okC := pathID(r, "courseID")
	employeeID, okE := pathID(r, "employeeID")
	if !okC || !okE {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return
	}
	result, err := a.Access.Revoke(r.Context(), claims.UserID, courseID, employeeID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type bulkReviewRequest struct {
	RequestIDs []int32             `json:"request_ids"`
	Action     domain.ReviewAction `json:"action"`
}

func (a *API) handleBulkReviewAccess(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin)
	if claims == nil {
		return
	}
	var req bulkReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := a.Access.BulkReview(r.Context(), claims.UserID, req.RequestIDs, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- registration requests ---

func (a *API) handleReviewRegistration(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin, domain.RoleSuperAdmin)
	if claims == nil {
		return
	}
	requestID, ok := pathID(r, "requestID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request id"})
		return
	}
	var req reviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := a.Registration.Review(r.Context(), claims.UserID, requestID, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleBulkReviewRegistration(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleAdmin, domain.RoleSuperAdmin)
	if claims == nil {
		return
	}
	var req bulkReviewRequest
	if !decodeBody(w, r, &req) {
		return
	}
	result, err := a.Registration.BulkReview(r.Context(), claims.UserID, req.RequestIDs, req.Action)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// --- progress ---

type progressUpdateRequest struct {
	Dimension domain.ProgressDimension `json:"dimension"`
	ItemID    int32                    `json:"item_id"`
}

func (a *API) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleEmployee, domain.RoleIndividual)
	if claims == nil {
		return
	}
	courseID, ok := pathID(r, "courseID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid course id"})
		return
	}
	var req progressUpdateRequest
	if !decodeBody(w, r, &req) {
		return
	}
	progress, err := a.Progress.RecordCompletion(r.Context(), claims.UserID, courseID, req.Dimension, req.ItemID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

func (a *API) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	claims := requireRole(w, r, domain.RoleEmployee, domain.RoleIndividual, domain.RoleAdmin)
	if claims == nil {
		return
	}
	courseID, ok := pathID(r, "courseID")
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid course id"})
		return
	}
	progress, err := a.Progress.GetProgress(r.Context(), claims.UserID, courseID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
