package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// ShiftHandler handles shift rota endpoints
type ShiftHandler struct {
	service *service.ShiftService
	logger  *logger.Logger
}

// NewShiftHandler creates a new shift handler
func NewShiftHandler(svc *service.ShiftService, log *logger.Logger) *ShiftHandler {
	return &ShiftHandler{
		service: svc,
		logger:  log,
	}
}

// List lists shifts, filtered by from, to, department_id and employee_id
func (h *ShiftHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.ShiftFilter
	var err error

	if filter.From, err = httputil.QueryDate(r, "from"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.To, err = httputil.QueryDate(r, "to"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.DepartmentID, err = queryInt64(r, "department_id"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.EmployeeID, err = queryInt64(r, "employee_id"); err != nil {
		httputil.Error(w, err)
		return
	}

	shifts, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, shifts)
}

// UpdateShiftRequest relabels a shift
type UpdateShiftRequest struct {
	ShiftType string `json:"shift_type" validate:"required"`
}

// Update relabels one shift
func (h *ShiftHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var req UpdateShiftRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.UpdateType(r.Context(), id, req.ShiftType); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "shift updated")
}

// Adjust rebalances shifts on a date around an absent employee
func (h *ShiftHandler) Adjust(w http.ResponseWriter, r *http.Request) {
	employeeID, err := httputil.URLParamInt64(r, "employeeId")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	date, err := httputil.ParseDate(chi.URLParam(r, "date"), "date")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	toggled, err := h.service.AdjustShiftsForAbsence(r.Context(), employeeID, date)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"shifts_adjusted": toggled})
}

// Generate runs the monthly shift generation on demand
func (h *ShiftHandler) Generate(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.GenerateMonthlyShifts(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, result)
}
