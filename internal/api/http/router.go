package http

import (
	"net/http"

	"workculture-backend/internal/metrics"
	"workculture-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter builds the HTTP routing table. Signup and login are public;
// everything under /api/v1 otherwise requires a valid access token.
func NewRouter(api *API, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	public := r.PathPrefix("/api/v1").Subrouter()
	public.Handle("/auth/signup/employee",
		metrics.Instrument("/auth/signup/employee", http.HandlerFunc(api.handleSignupEmployee))).Methods("POST")
	public.Handle("/auth/signup/individual",
		metrics.Instrument("/auth/signup/individual", http.HandlerFunc(api.handleSignupIndividual))).Methods("POST")
	public.Handle("/auth/login",
		metrics.Instrument("/auth/login", http.HandlerFunc(api.handleLogin))).Methods("POST")

	protected := r.PathPrefix("/api/v1").Subrouter()
	protected.Use(Authenticate(tokens))

	route := func(method, path, label string, h http.HandlerFunc) {
		protected.Handle(path, metrics.Instrument(label, h)).Methods(method)
	}

	route("GET", "/admins/{adminID}/limits", "/admins/limits", api.handleGetLimits)
	route("PATCH", "/admins/{adminID}/limits", "/admins/limits", api.handleUpdateLimits)
	route("GET", "/admins/{adminID}/usage", "/admins/usage", api.handleGetUsage)
	route("GET", "/quota/preview", "/quota/preview", api.handleQuotaPreview)

	route("POST", "/organizations", "/organizations", api.handleCreateOrganization)
	route("POST", "/organizations/{orgID}/departments", "/organizations/departments", api.handleCreateDepartment)
	route("POST", "/organizations/{orgID}/employees", "/organizations/employees", api.handleAddEmployee)

	route("POST", "/courses", "/courses", api.handleCreateCourse)
	route("POST", "/courses/{courseID}/publish", "/courses/publish", api.handlePublishCourse)

	route("POST", "/courses/{courseID}/access-requests", "/courses/access-requests", api.handleRequestAccess)
	route("POST", "/courses/{courseID}/access-requests/{employeeID}/review", "/courses/access-requests/review", api.handleReviewAccess)
	route("POST", "/courses/{courseID}/access-requests/{employeeID}/revoke", "/courses/access-requests/revoke", api.handleRevokeAccess)
	route("POST", "/access-requests/bulk-review", "/access-requests/bulk-review", api.handleBulkReviewAccess)

	route("POST", "/registration-requests/{requestID}/review", "/registration-requests/review", api.handleReviewRegistration)
	route("POST", "/registration-requests/bulk-review", "/registration-requests/bulk-review", api.handleBulkReviewRegistration)

	route("POST", "/courses/{courseID}/progress", "/courses/progress", api.handleRecordProgress)
	route("GET", "/courses/{courseID}/progress", "/courses/progress", api.handleGetProgress)

	return r
}
