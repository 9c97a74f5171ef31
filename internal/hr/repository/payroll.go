package repository

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
	"github.com/shopspring/decimal"
)

// Payroll represents one employee's payroll for one month
type Payroll struct {
	ID               int64           `db:"payroll_id" json:"payroll_id"`
	EmployeeID       int64           `db:"employee_id" json:"employee_id"`
	EmployeeName     string          `db:"employee_name" json:"employee_name,omitempty"`
	Month            int             `db:"payroll_month" json:"payroll_month"`
	Year             int             `db:"payroll_year" json:"payroll_year"`
	BaseSalary       decimal.Decimal `db:"base_salary" json:"base_salary"`
	TotalHoursWorked decimal.Decimal `db:"total_hours_worked" json:"total_hours_worked"`
	LeaveDeduction   decimal.Decimal `db:"leave_deduction" json:"leave_deduction"`
	Bonus            decimal.Decimal `db:"bonus" json:"bonus"`
	HourlyRate       decimal.Decimal `db:"hourly_rate" json:"hourly_rate"`
	NetSalary        decimal.Decimal `db:"net_salary" json:"net_salary"`
	ProcessedAt      time.Time       `db:"processed_at" json:"processed_at"`
}

// PayslipRow is a payroll row joined with its employee and department
type PayslipRow struct {
	Payroll
	Role           string  `db:"role"`
	Email          string  `db:"email"`
	DepartmentName *string `db:"department_name"`
	BankName       *string `db:"bank_name"`
	AccountNumber  *string `db:"bank_account_number"`
}

// PayrollRepository handles payroll persistence
type PayrollRepository struct {
	db *database.DB
}

// NewPayrollRepository creates a new payroll repository
func NewPayrollRepository(db *database.DB) *PayrollRepository {
	return &PayrollRepository{db: db}
}

// ExistsForMonth reports whether any payroll row exists for the month
func (r *PayrollRepository) ExistsForMonth(ctx context.Context, month, year int) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM payroll WHERE payroll_month = $1 AND payroll_year = $2)`
	if err := r.db.GetContext(ctx, &exists, query, month, year); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts one payroll row
func (r *PayrollRepository) Create(ctx context.Context, p *Payroll) error {
	query := `
		INSERT INTO payroll (
			employee_id, payroll_month, payroll_year, base_salary, total_hours_worked,
			leave_deduction, bonus, hourly_rate, net_salary
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING payroll_id, processed_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		p.EmployeeID, p.Month, p.Year, p.BaseSalary, p.TotalHoursWorked,
		p.LeaveDeduction, p.Bonus, p.HourlyRate, p.NetSalary,
	).Scan(&p.ID, &p.ProcessedAt)
	return database.Translate(err, "employee")
}

// ListForMonth lists the payroll of a month with employee names
func (r *PayrollRepository) ListForMonth(ctx context.Context, month, year int) ([]*Payroll, error) {
	query := `
		SELECT p.payroll_id, p.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       p.payroll_month, p.payroll_year, p.base_salary, p.total_hours_worked,
		       p.leave_deduction, p.bonus, p.hourly_rate, p.net_salary, p.processed_at
		FROM payroll p
		JOIN employees e ON e.employee_id = p.employee_id
		WHERE p.payroll_month = $1 AND p.payroll_year = $2
		ORDER BY p.employee_id
	`

	var rows []*Payroll
	if err := r.db.SelectContext(ctx, &rows, query, month, year); err != nil {
		return nil, err
	}
	return rows, nil
}

// GetPayslip loads the payroll of one employee for a month joined with
// the employee and department
func (r *PayrollRepository) GetPayslip(ctx context.Context, employeeID int64, month, year int) (*PayslipRow, error) {
	var row PayslipRow
	query := `
		SELECT p.payroll_id, p.employee_id, e.first_name || ' ' || e.last_name AS employee_name,
		       p.payroll_month, p.payroll_year, p.base_salary, p.total_hours_worked,
		       p.leave_deduction, p.bonus, p.hourly_rate, p.net_salary, p.processed_at,
		       e.role, e.email, d.department_name, e.bank_name, e.bank_account_number
		FROM payroll p
		JOIN employees e ON e.employee_id = p.employee_id
		LEFT JOIN departments d ON d.department_id = e.department_id
		WHERE p.employee_id = $1 AND p.payroll_month = $2 AND p.payroll_year = $3
	`

	if err := r.db.GetContext(ctx, &row, query, employeeID, month, year); err != nil {
		return nil, database.Translate(err, "payroll record")
	}
	return &row, nil
}
