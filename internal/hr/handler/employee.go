package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// EmployeeHandler serves employee and department endpoints. The same
// handler backs the admin surface and, with hrScope set, the HR surface.
type EmployeeHandler struct {
	service *service.EmployeeService
	hrScope bool
	logger  *logger.Logger
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(svc *service.EmployeeService, hrScope bool, log *logger.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		service: svc,
		hrScope: hrScope,
		logger:  log,
	}
}

// CreateDepartmentRequest is the body of a new department
type CreateDepartmentRequest struct {
	Name      string `json:"department_name" validate:"required,max=100"`
	ManagerID *int64 `json:"manager_id" validate:"omitempty,gt=0"`
}

// ============================================================================
// DEPARTMENTS
// ============================================================================

// ListDepartments lists departments
func (h *EmployeeHandler) ListDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.service.ListDepartments(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, departments)
}

// CreateDepartment creates a department
func (h *EmployeeHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	var req CreateDepartmentRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	dept := &repository.Department{Name: req.Name, ManagerID: req.ManagerID}
	if err := h.service.CreateDepartment(r.Context(), dept); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, dept)
}

// DeleteDepartment deletes a department
func (h *EmployeeHandler) DeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.DeleteDepartment(r.Context(), id); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "department deleted")
}

// ============================================================================
// EMPLOYEES
// ============================================================================

// List lists employees, filtered by department_id and status
func (h *EmployeeHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.EmployeeFilter{Status: r.URL.Query().Get("status")}
	switch filter.Status {
	case "", repository.StatusActive, repository.StatusInactive:
	default:
		httputil.Error(w, errors.BadRequest("invalid status"))
		return
	}

	var err error
	if filter.DepartmentID, err = queryInt64(r, "department_id"); err != nil {
		httputil.Error(w, err)
		return
	}

	employees, err := h.service.List(r.Context(), filter, h.hrScope)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employees)
}

// ListByDepartment lists the employees of the department in the URL
func (h *EmployeeHandler) ListByDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	employees, err := h.service.List(r.Context(), repository.EmployeeFilter{DepartmentID: &id}, h.hrScope)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, employees)
}

// Get gets one employee
func (h *EmployeeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Get(r.Context(), id, h.hrScope)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}

// Create creates an employee
func (h *EmployeeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req service.EmployeeInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Create(r.Context(), &req, h.hrScope)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, emp)
}

// Update updates an employee
func (h *EmployeeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req service.EmployeeInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	emp, err := h.service.Update(r.Context(), id, &req, h.hrScope)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, emp)
}

// Deactivate marks an employee Inactive
func (h *EmployeeHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Deactivate(r.Context(), id, h.hrScope); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "employee deactivated")
}

// Delete hard-deletes an employee
func (h *EmployeeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), id, h.hrScope); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "employee deleted")
}

// PurgeInactive removes long-inactive employees on demand
func (h *EmployeeHandler) PurgeInactive(w http.ResponseWriter, r *http.Request) {
	purged, err := h.service.PurgeInactiveEmployees(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int{"purged": purged})
}
