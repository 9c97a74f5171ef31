package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
)

// Shift labels
const (
	ShiftMorning     = "Morning"
	ShiftNight       = "Night"
	ShiftNotAssigned = "Not Assigned"
)

// Shift represents one employee's shift on one day
type Shift struct {
	ID             int64     `db:"shift_id" json:"shift_id"`
	EmployeeID     int64     `db:"employee_id" json:"employee_id"`
	EmployeeName   string    `db:"employee_name" json:"employee_name"`
	DepartmentID   *int64    `db:"department_id" json:"department_id,omitempty"`
	DepartmentName *string   `db:"department_name" json:"department_name,omitempty"`
	ShiftDate      time.Time `db:"shift_date" json:"shift_date"`
	ShiftType      string    `db:"shift_type" json:"shift_type"`
}

// ShiftFilter narrows shift listings
type ShiftFilter struct {
	From         *time.Time
	To           *time.Time
	DepartmentID *int64
	EmployeeID   *int64
}

// ShiftRepository handles shift persistence
type ShiftRepository struct {
	db *database.DB
}

// NewShiftRepository creates a new shift repository
func NewShiftRepository(db *database.DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ExistsOnOrAfter reports whether any shift is scheduled on or after date
func (r *ShiftRepository) ExistsOnOrAfter(ctx context.Context, date time.Time) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM shifts WHERE shift_date >= $1)`
	if err := r.db.GetContext(ctx, &exists, query, date); err != nil {
		return false, err
	}
	return exists, nil
}

// InsertIfAbsent assigns a shift, keeping any existing row for the same employee and day
func (r *ShiftRepository) InsertIfAbsent(ctx context.Context, employeeID int64, date time.Time, shiftType string) (bool, error) {
	query := `
		INSERT INTO shifts (employee_id, shift_date, shift_type)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, shift_date) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, query, employeeID, date, shiftType)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// GetByEmployeeAndDate gets one employee's shift on a day
func (r *ShiftRepository) GetByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (*Shift, error) {
	var shift Shift
	query := `
		SELECT s.shift_id, s.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       e.department_id, s.shift_date, s.shift_type
		FROM shifts s
		JOIN employees e ON e.employee_id = s.employee_id
		WHERE s.employee_id = $1 AND s.shift_date = $2
	`

	if err := r.db.GetContext(ctx, &shift, query, employeeID, date); err != nil {
		return nil, database.Translate(err, "shift")
	}
	return &shift, nil
}

// ToggleOthersOnDate swaps Morning and Night for every shift on date except
// the given employee's. Unassigned shifts stay unassigned.
func (r *ShiftRepository) ToggleOthersOnDate(ctx context.Context, date time.Time, exceptEmployeeID int64) (int64, error) {
	query := `
		UPDATE shifts
		SET shift_type = CASE shift_type WHEN 'Morning' THEN 'Night' ELSE 'Morning' END
		WHERE shift_date = $1
		  AND employee_id <> $2
		  AND shift_type IN ('Morning', 'Night')
	`

	result, err := r.db.ExecContext(ctx, query, date, exceptEmployeeID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// List lists shifts matching the filter
func (r *ShiftRepository) List(ctx context.Context, filter ShiftFilter) ([]*Shift, error) {
	var conditions []string
	var args []interface{}

	if filter.From != nil {
		args = append(args, *filter.From)
		conditions = append(conditions, fmt.Sprintf("s.shift_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		conditions = append(conditions, fmt.Sprintf("s.shift_date <= $%d", len(args)))
	}
	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("s.employee_id = $%d", len(args)))
	}

	query := `
		SELECT s.shift_id, s.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       e.department_id, d.department_name, s.shift_date, s.shift_type
		FROM shifts s
		JOIN employees e ON e.employee_id = s.employee_id
		LEFT JOIN departments d ON d.department_id = e.department_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY s.shift_date, d.department_name, s.employee_id"

	var shifts []*Shift
	if err := r.db.SelectContext(ctx, &shifts, query, args...); err != nil {
		return nil, err
	}
	return shifts, nil
}

// UpdateType changes the label of one shift
func (r *ShiftRepository) UpdateType(ctx context.Context, id int64, shiftType string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE shifts SET shift_type = $2 WHERE shift_id = $1`, id, shiftType)
	if err != nil {
		return database.Translate(err, "shift")
	}
	return requireRow(result, "shift")
}
