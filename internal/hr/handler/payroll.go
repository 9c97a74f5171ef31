package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/document"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// PayrollHandler handles payroll endpoints
type PayrollHandler struct {
	service *service.PayrollService
	logger  *logger.Logger
}

// NewPayrollHandler creates a new payroll handler
func NewPayrollHandler(svc *service.PayrollService, log *logger.Logger) *PayrollHandler {
	return &PayrollHandler{
		service: svc,
		logger:  log,
	}
}

// Process runs the monthly payroll
func (h *PayrollHandler) Process(w http.ResponseWriter, r *http.Request) {
	run, err := h.service.ProcessMonthlyPayroll(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, run)
}

// Status reports whether this month's payroll is processed
func (h *PayrollHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.GetPayrollStatus(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, status)
}

// List lists this month's payroll
func (h *PayrollHandler) List(w http.ResponseWriter, r *http.Request) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, rows)
}

// Get returns one employee's payroll for this month
func (h *PayrollHandler) Get(w http.ResponseWriter, r *http.Request) {
	employeeID, err := httputil.URLParamInt64(r, "employeeId")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	slip, err := h.service.GetPayslip(r.Context(), employeeID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, slip)
}

// Payslip downloads the payslip PDF
func (h *PayrollHandler) Payslip(w http.ResponseWriter, r *http.Request) {
	employeeID, err := httputil.URLParamInt64(r, "employeeId")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	slip, pdf, err := h.service.GeneratePayslip(r.Context(), employeeID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Attachment(w, slip.Filename(), document.ContentTypePDF, pdf)
}

// SendPayslip emails the payslip to the employee
func (h *PayrollHandler) SendPayslip(w http.ResponseWriter, r *http.Request) {
	employeeID, err := httputil.URLParamInt64(r, "employeeId")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	if err := h.service.SendPayslipByEmail(r.Context(), employeeID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Message(w, http.StatusOK, "payslip sent")
}
