package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// Attendance statuses
const (
	AttendancePresent = "Present"
	AttendanceAbsent  = "Absent"
	AttendanceLeave   = "Leave"
)

// Attendance represents one employee's attendance on one day
type Attendance struct {
	ID             int64           `db:"attendance_id" json:"attendance_id"`
	EmployeeID     int64           `db:"employee_id" json:"employee_id"`
	EmployeeName   string          `db:"employee_name" json:"employee_name"`
	AttendanceDate time.Time       `db:"attendance_date" json:"attendance_date"`
	Status         string          `db:"status" json:"status"`
	LeaveType      *string         `db:"leave_type" json:"leave_type,omitempty"`
	TotalHours     decimal.Decimal `db:"total_hours" json:"total_hours"`
}

// AttendanceFilter narrows attendance listings
type AttendanceFilter struct {
	From       *time.Time
	To         *time.Time
	EmployeeID *int64
}

// MonthTotals aggregates one employee's attendance over a period
type MonthTotals struct {
	TotalHours decimal.Decimal `db:"total_hours"`
	LeaveDays  int             `db:"leave_days"`
}

// AttendanceRepository handles attendance persistence
type AttendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository creates a new attendance repository
func NewAttendanceRepository(db *database.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// List lists attendance rows matching the filter
func (r *AttendanceRepository) List(ctx context.Context, filter AttendanceFilter) ([]*Attendance, error) {
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("a.attendance_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("a.attendance_date <= $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", len(args)))
	}

	query := `
		SELECT a.attendance_id, a.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       a.attendance_date, a.status, a.leave_type, a.total_hours
		FROM attendance a
		JOIN employees e ON e.employee_id = a.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY a.attendance_date, a.employee_id"

	var rows []*Attendance
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

// Upsert records the attendance of an employee for a day, replacing any earlier record
func (r *AttendanceRepository) Upsert(ctx context.Context, a *Attendance) error {
	query := `
		INSERT INTO attendance (employee_id, attendance_date, status, leave_type, total_hours)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (employee_id, attendance_date) DO UPDATE
		SET status = EXCLUDED.status, leave_type = EXCLUDED.leave_type, total_hours = EXCLUDED.total_hours
		RETURNING attendance_id
	`

	err := r.db.QueryRowxContext(ctx, query,
		a.EmployeeID, a.AttendanceDate, a.Status, a.LeaveType, a.TotalHours,
	).Scan(&a.ID)
	return database.Translate(err, "employee")
}

// MarkLeave sets every attendance row of the employee within [start, end] to
// Leave with the given type. It runs on the caller's transaction.
func (r *AttendanceRepository) MarkLeave(ctx context.Context, tx sqlx.ExtContext, employeeID int64, start, end time.Time, leaveType string) (int64, error) {
	query := `
		UPDATE attendance
		SET status = 'Leave', leave_type = $4
		WHERE employee_id = $1 AND attendance_date BETWEEN $2 AND $3
	`

	result, err := tx.ExecContext(ctx, query, employeeID, start, end, leaveType)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// Totals sums hours and counts Leave days of an employee within [from, to]
func (r *AttendanceRepository) Totals(ctx context.Context, employeeID int64, from, to time.Time) (*MonthTotals, error) {
	var totals MonthTotals
	query := `
		SELECT COALESCE(SUM(total_hours), 0) AS total_hours,
		       COUNT(*) FILTER (WHERE status = 'Leave') AS leave_days
		FROM attendance
		WHERE employee_id = $1 AND attendance_date BETWEEN $2 AND $3
	`

	if err := r.db.GetContext(ctx, &totals, query, employeeID, from, to); err != nil {
		return nil, err
	}
	return &totals, nil
}
