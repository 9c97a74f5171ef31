package handler

import (
	"net/http"
	"time"

	"github.com/retailhub/backoffice/internal/admin/repository"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/httputil"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/messaging"
)

// AdminHandler serves the admin overview and the health probes
type AdminHandler struct {
	overview *repository.OverviewRepository
	db       *database.DB
	rmq      *messaging.RabbitMQ
	logger   *logger.Logger
	now      func() time.Time
}

// NewAdminHandler creates a new admin handler. rmq may be nil.
func NewAdminHandler(overview *repository.OverviewRepository, db *database.DB, rmq *messaging.RabbitMQ, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		overview: overview,
		db:       db,
		rmq:      rmq,
		logger:   log,
		now:      time.Now,
	}
}

// Dashboard returns the admin overview counts
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	overview, err := h.overview.Get(r.Context(), dayStart)
	if err != nil {
		httputil.Error(w, err)
		return
	}
	httputil.JSON(w, http.StatusOK, overview)
}

// Health reports the database and, when configured, the broker
func (h *AdminHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]map[string]string{
		"database": h.db.Health(r.Context()),
	}
	if h.rmq != nil {
		checks["rabbitmq"] = h.rmq.Health()
	}

	status := http.StatusOK
	for _, check := range checks {
		if check["status"] != "up" {
			status = http.StatusServiceUnavailable
		}
	}

	httputil.JSON(w, status, checks)
}

// DBHealth reports the database only
func (h *AdminHandler) DBHealth(w http.ResponseWriter, r *http.Request) {
	check := h.db.Health(r.Context())
	status := http.StatusOK
	if check["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	httputil.JSON(w, status, check)
}
