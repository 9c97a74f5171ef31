package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailhub/backoffice/pkg/database"
)

// Leave request statuses
const (
	LeavePending  = "Pending"
	LeaveApproved = "Approved"
	LeaveRejected = "Rejected"
)

// LeaveRequest represents a leave request
type LeaveRequest struct {
	ID           int64      `db:"leave_id" json:"leave_id"`
	EmployeeID   int64      `db:"employee_id" json:"employee_id"`
	EmployeeName string     `db:"employee_name" json:"employee_name,omitempty"`
	StartDate    time.Time  `db:"start_date" json:"start_date"`
	EndDate      time.Time  `db:"end_date" json:"end_date"`
	LeaveType    string     `db:"leave_type" json:"leave_type"`
	Reason       *string    `db:"reason" json:"reason,omitempty"`
	Status       string     `db:"status" json:"status"`
	RequestedAt  time.Time  `db:"requested_at" json:"requested_at"`
	ReviewedAt   *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// LeaveFilter narrows leave request listings
type LeaveFilter struct {
	Status     string
	EmployeeID *int64
}

// LeaveRepository handles leave request persistence
type LeaveRepository struct {
	db *database.DB
}

// NewLeaveRepository creates a new leave repository
func NewLeaveRepository(db *database.DB) *LeaveRepository {
	return &LeaveRepository{db: db}
}

// HasOverlap reports whether the employee has a pending or approved request
// overlapping [start, end], bounds inclusive.
func (r *LeaveRepository) HasOverlap(ctx context.Context, employeeID int64, start, end time.Time) (bool, error) {
	var overlap bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status IN ('Pending', 'Approved')
			  AND start_date <= $3
			  AND end_date >= $2
		)
	`

	if err := r.db.GetContext(ctx, &overlap, query, employeeID, start, end); err != nil {
		return false, err
	}
	return overlap, nil
}

// Create inserts a Pending leave request
func (r *LeaveRepository) Create(ctx context.Context, l *LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (employee_id, start_date, end_date, leave_type, reason, status)
		VALUES ($1, $2, $3, $4, $5, 'Pending')
		RETURNING leave_id, status, requested_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		l.EmployeeID, l.StartDate, l.EndDate, l.LeaveType, l.Reason,
	).Scan(&l.ID, &l.Status, &l.RequestedAt)
	return database.Translate(err, "employee")
}

// List lists leave requests matching the filter, newest first
func (r *LeaveRepository) List(ctx context.Context, filter LeaveFilter) ([]*LeaveRequest, error) {
	var conditions []string
	var args []interface{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("l.status = $%d", len(args)))
	}
	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		conditions = append(conditions, fmt.Sprintf("l.employee_id = $%d", len(args)))
	}

	query := `
		SELECT l.leave_id, l.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       l.start_date, l.end_date, l.leave_type, l.reason, l.status, l.requested_at, l.reviewed_at
		FROM leave_requests l
		JOIN employees e ON e.employee_id = l.employee_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY l.requested_at DESC"

	var requests []*LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, err
	}
	return requests, nil
}

// GetPendingForUpdate locks a Pending request on the caller's transaction.
// Missing and already reviewed requests are both NotFound.
func (r *LeaveRepository) GetPendingForUpdate(ctx context.Context, tx sqlx.QueryerContext, id int64) (*LeaveRequest, error) {
	var l LeaveRequest
	query := `
		SELECT leave_id, employee_id, start_date, end_date, leave_type, reason, status, requested_at, reviewed_at
		FROM leave_requests
		WHERE leave_id = $1 AND status = 'Pending'
		FOR UPDATE
	`

	if err := sqlx.GetContext(ctx, tx, &l, query, id); err != nil {
		return nil, database.Translate(err, "pending leave request")
	}
	return &l, nil
}

// SetApproved marks a request Approved on the caller's transaction
func (r *LeaveRepository) SetApproved(ctx context.Context, tx sqlx.ExecerContext, id int64, at time.Time) error {
	query := `UPDATE leave_requests SET status = 'Approved', reviewed_at = $2 WHERE leave_id = $1`
	result, err := tx.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	return requireRow(result, "pending leave request")
}

// Reject marks a Pending request Rejected in one guarded update
func (r *LeaveRepository) Reject(ctx context.Context, id int64, at time.Time) (*LeaveRequest, error) {
	var l LeaveRequest
	query := `
		UPDATE leave_requests
		SET status = 'Rejected', reviewed_at = $2
		WHERE leave_id = $1 AND status = 'Pending'
		RETURNING leave_id, employee_id, start_date, end_date, leave_type, reason, status, requested_at, reviewed_at
	`

	if err := r.db.GetContext(ctx, &l, query, id, at); err != nil {
		return nil, database.Translate(err, "pending leave request")
	}
	return &l, nil
}
