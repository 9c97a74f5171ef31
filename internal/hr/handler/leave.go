package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
)

// LeaveHandler handles leave request endpoints
type LeaveHandler struct {
	service *service.LeaveService
	logger  *logger.Logger
}

// NewLeaveHandler creates a new leave handler
func NewLeaveHandler(svc *service.LeaveService, log *logger.Logger) *LeaveHandler {
	return &LeaveHandler{
		service: svc,
		logger:  log,
	}
}

// CreateLeaveRequest is the body of a new leave request
type CreateLeaveRequest struct {
	EmployeeID int64   `json:"employee_id" validate:"required,gt=0"`
	StartDate  string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	LeaveType  string  `json:"leave_type" validate:"required,max=50"`
	Reason     *string `json:"reason"`
}

// List lists leave requests, optionally filtered by status and employee_id
func (h *LeaveHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := repository.LeaveFilter{Status: r.URL.Query().Get("status")}
	switch filter.Status {
	case "", repository.LeavePending, repository.LeaveApproved, repository.LeaveRejected:
	default:
		httputil.Error(w, errors.BadRequest("invalid status"))
		return
	}

	var err error
	if filter.EmployeeID, err = queryInt64(r, "employee_id"); err != nil {
		httputil.Error(w, err)
		return
	}

	requests, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, requests)
}

// Create files a leave request
func (h *LeaveHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	start, err := httputil.ParseDate(req.StartDate, "start_date")
	if err != nil {
		httputil.Error(w, err)
		return
	}
	end, err := httputil.ParseDate(req.EndDate, "end_date")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	leave, err := h.service.RequestLeave(r.Context(), service.NewLeave{
		EmployeeID: req.EmployeeID,
		StartDate:  start,
		EndDate:    end,
		LeaveType:  req.LeaveType,
		Reason:     req.Reason,
	})
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, leave)
}

// Approve approves a pending request
func (h *LeaveHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	leave, err := h.service.ApproveLeaveRequest(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, leave)
}

// Reject rejects a pending request
func (h *LeaveHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.URLParamInt64(r, "id")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	leave, err := h.service.RejectLeaveRequest(r.Context(), id)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, leave)
}
