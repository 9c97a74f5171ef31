package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// AttendanceHandler handles attendance endpoints
type AttendanceHandler struct {
	service *service.AttendanceService
	logger  *logger.Logger
}

// NewAttendanceHandler creates a new attendance handler
func NewAttendanceHandler(svc *service.AttendanceService, log *logger.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		service: svc,
		logger:  log,
	}
}

// List lists attendance, filtered by from, to and employee_id
func (h *AttendanceHandler) List(w http.ResponseWriter, r *http.Request) {
	var filter repository.AttendanceFilter
	var err error

	if filter.From, err = httputil.QueryDate(r, "from"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.To, err = httputil.QueryDate(r, "to"); err != nil {
		httputil.Error(w, err)
		return
	}
	if filter.EmployeeID, err = queryInt64(r, "employee_id"); err != nil {
		httputil.Error(w, err)
		return
	}

	rows, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}

// Record creates or replaces a day of attendance
func (h *AttendanceHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req service.AttendanceInput
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	a, err := h.service.Record(r.Context(), &req)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, a)
}

// Export downloads one employee's month as xlsx or pdf
// (?month=YYYY-MM&format=xlsx|pdf)
func (h *AttendanceHandler) Export(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	month, err := service.ParseMonth(r.URL.Query().Get("month"))
	if err != nil {
		httputil.Error(w, errors.BadRequest("month must be YYYY-MM"))
		return
	}

	export, err := h.service.Export(r.Context(), id, month, r.URL.Query().Get("format"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Attachment(w, export.Filename, export.ContentType, export.Content)
}
