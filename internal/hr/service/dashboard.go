package service

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/internal/hr/repository"
)

// HRDashboard is the HR overview shown on the landing page
type HRDashboard struct {
	repository.DashboardCounts
	PayrollPending   bool                       `json:"payroll_pending"`
	WeeklyAttendance []repository.DailyPresence `json:"weekly_attendance"`
}

// DashboardService assembles the HR overview
type DashboardService struct {
	dashboardRepo *repository.DashboardRepository
	payrollRepo   *repository.PayrollRepository
	now           func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(dashboardRepo *repository.DashboardRepository, payrollRepo *repository.PayrollRepository) *DashboardService {
	return &DashboardService{
		dashboardRepo: dashboardRepo,
		payrollRepo:   payrollRepo,
		now:           time.Now,
	}
}

// Get builds the dashboard for today. The weekly series covers the last
// seven days including today, with a zero for days without attendance.
func (s *DashboardService) Get(ctx context.Context) (*HRDashboard, error) {
	today := dateOf(s.now())

	counts, err := s.dashboardRepo.Counts(ctx, today)
	if err != nil {
		return nil, err
	}

	processed, err := s.payrollRepo.ExistsForMonth(ctx, int(today.Month()), today.Year())
	if err != nil {
		return nil, err
	}

	from := today.AddDate(0, 0, -6)
	rows, err := s.dashboardRepo.WeeklyPresence(ctx, from, today)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]int, len(rows))
	for _, r := range rows {
		byDay[r.Date.Format(dateLayout)] = r.Present
	}

	weekly := make([]repository.DailyPresence, 0, 7)
	for day := from; !day.After(today); day = day.AddDate(0, 0, 1) {
		weekly = append(weekly, repository.DailyPresence{Date: day, Present: byDay[day.Format(dateLayout)]})
	}

	return &HRDashboard{
		DashboardCounts:  *counts,
		PayrollPending:   !processed,
		WeeklyAttendance: weekly,
	}, nil
}
