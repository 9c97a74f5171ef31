package handler

import (
	"net/http"

	"github.com/retailhub/backoffice/internal/hr/service"
	"github.com/retailhub/backoffice/pkg/httputil"
)

// DashboardHandler serves the HR overview
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Get returns the HR dashboard
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.service.Get(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, dashboard)
}
