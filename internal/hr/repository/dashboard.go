package repository

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
)

// DashboardCounts holds the headline HR numbers for one day
type DashboardCounts struct {
	Employees      int `db:"employees" json:"employees"`
	ActiveToday    int `db:"active_today" json:"active_today"`
	OnLeaveToday   int `db:"on_leave_today" json:"on_leave_today"`
	UpcomingShifts int `db:"upcoming_shifts" json:"upcoming_shifts"`
}

// DailyPresence is the number of Present employees on one day
type DailyPresence struct {
	Date    time.Time `db:"attendance_date" json:"date"`
	Present int       `db:"present" json:"present"`
}

// DashboardRepository runs the HR overview aggregates
type DashboardRepository struct {
	db *database.DB
}

// NewDashboardRepository creates a new dashboard repository
func NewDashboardRepository(db *database.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Counts computes the headline numbers; shifts are counted in (today, today+7]
func (r *DashboardRepository) Counts(ctx context.Context, today time.Time) (*DashboardCounts, error) {
	var counts DashboardCounts
	query := `
		SELECT
			(SELECT COUNT(*) FROM employees WHERE status = 'Active') AS employees,
			(SELECT COUNT(*) FROM attendance WHERE attendance_date = $1 AND status = 'Present') AS active_today,
			(SELECT COUNT(*) FROM attendance WHERE attendance_date = $1 AND status = 'Leave') AS on_leave_today,
			(SELECT COUNT(*) FROM shifts WHERE shift_date > $1 AND shift_date <= $2) AS upcoming_shifts
	`

	if err := r.db.GetContext(ctx, &counts, query, today, today.AddDate(0, 0, 7)); err != nil {
		return nil, err
	}
	return &counts, nil
}

// WeeklyPresence returns Present counts per day for [from, to], days
// without attendance rows omitted
func (r *DashboardRepository) WeeklyPresence(ctx context.Context, from, to time.Time) ([]DailyPresence, error) {
	query := `
		SELECT attendance_date, COUNT(*) FILTER (WHERE status = 'Present') AS present
		FROM attendance
		WHERE attendance_date BETWEEN $1 AND $2
		GROUP BY attendance_date
		ORDER BY attendance_date
	`

	var rows []DailyPresence
	if err := r.db.SelectContext(ctx, &rows, query, from, to); err != nil {
		return nil, err
	}
	return rows, nil
}
