package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/shopspring/decimal"
)

// Employee statuses
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Employee represents an employee record
type Employee struct {
	ID                int64           `db:"employee_id" json:"employee_id"`
	FirstName         string          `db:"first_name" json:"first_name"`
	LastName          string          `db:"last_name" json:"last_name"`
	Role              string          `db:"role" json:"role"`
	DepartmentID      *int64          `db:"department_id" json:"department_id,omitempty"`
	DepartmentName    *string         `db:"department_name" json:"department_name,omitempty"`
	Phone             *string         `db:"phone" json:"phone,omitempty"`
	Email             string          `db:"email" json:"email"`
	Address           *string         `db:"address" json:"address,omitempty"`
	DOB               *time.Time      `db:"dob" json:"dob,omitempty"`
	Gender            *string         `db:"gender" json:"gender,omitempty"`
	EmergencyContact  *string         `db:"emergency_contact" json:"emergency_contact,omitempty"`
	HireDate          time.Time       `db:"hire_date" json:"hire_date"`
	Shift             *string         `db:"shift" json:"shift,omitempty"`
	Status            string          `db:"status" json:"status"`
	InactiveSince     *time.Time      `db:"inactive_since" json:"inactive_since,omitempty"`
	PasswordHash      string          `db:"password_hash" json:"-"`
	BankAccountNumber *string         `db:"bank_account_number" json:"bank_account_number,omitempty"`
	BankName          *string         `db:"bank_name" json:"bank_name,omitempty"`
	IFSCCode          *string         `db:"ifsc_code" json:"ifsc_code,omitempty"`
	AccountHolderName *string         `db:"account_holder_name" json:"account_holder_name,omitempty"`
	Salary            decimal.Decimal `db:"salary" json:"salary"`
	SalaryMode        *string         `db:"salary_mode" json:"salary_mode,omitempty"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// FullName returns first and last name
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	DepartmentID *int64
	Status       string
	ExcludeRoles []string
}

// ActiveEmployee is the payroll and rota view of an active employee
type ActiveEmployee struct {
	ID           int64           `db:"employee_id"`
	DepartmentID *int64          `db:"department_id"`
	Salary       decimal.Decimal `db:"salary"`
}

// EmployeeRepository handles employee persistence
type EmployeeRepository struct {
	db *database.DB
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *database.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

const employeeColumns = `
	e.employee_id, e.first_name, e.last_name, e.role, e.department_id, d.department_name,
	e.phone, e.email, e.address, e.dob, e.gender, e.emergency_contact, e.hire_date, e.shift,
	e.status, e.inactive_since, e.bank_account_number, e.bank_name, e.ifsc_code,
	e.account_holder_name, e.salary, e.salary_mode, e.created_at, e.updated_at`

// List lists employees matching the filter
func (r *EmployeeRepository) List(ctx context.Context, filter EmployeeFilter) ([]*Employee, error) {
	var conditions []string
	var args []interface{}

	if filter.DepartmentID != nil {
		args = append(args, *filter.DepartmentID)
		conditions = append(conditions, fmt.Sprintf("e.department_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)))
	}
	if len(filter.ExcludeRoles) > 0 {
		args = append(args, pq.Array(filter.ExcludeRoles))
		conditions = append(conditions, fmt.Sprintf("e.role <> ALL($%d)", len(args)))
	}

	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.department_id = e.department_id`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY e.employee_id"

	var employees []*Employee
	if err := r.db.SelectContext(ctx, &employees, query, args...); err != nil {
		return nil, err
	}
	return employees, nil
}

// GetByID gets an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*Employee, error) {
	var emp Employee
	query := `SELECT ` + employeeColumns + `
		FROM employees e
		LEFT JOIN departments d ON d.department_id = e.department_id
		WHERE e.employee_id = $1`

	if err := r.db.GetContext(ctx, &emp, query, id); err != nil {
		return nil, database.Translate(err, "employee")
	}
	return &emp, nil
}

// Create inserts a new employee
func (r *EmployeeRepository) Create(ctx context.Context, emp *Employee) error {
	query := `
		INSERT INTO employees (
			first_name, last_name, role, department_id, phone, email, address, dob, gender,
			emergency_contact, hire_date, shift, status, password_hash, bank_account_number,
			bank_name, ifsc_code, account_holder_name, salary, salary_mode
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING employee_id, created_at, updated_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		emp.FirstName, emp.LastName, emp.Role, emp.DepartmentID, emp.Phone, emp.Email,
		emp.Address, emp.DOB, emp.Gender, emp.EmergencyContact, emp.HireDate, emp.Shift,
		emp.Status, emp.PasswordHash, emp.BankAccountNumber, emp.BankName, emp.IFSCCode,
		emp.AccountHolderName, emp.Salary, emp.SalaryMode,
	).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)

	return database.Translate(err, "employee")
}

// Update updates the editable fields of an employee
func (r *EmployeeRepository) Update(ctx context.Context, emp *Employee) error {
	query := `
		UPDATE employees SET
			first_name = $2, last_name = $3, role = $4, department_id = $5, phone = $6,
			email = $7, address = $8, dob = $9, gender = $10, emergency_contact = $11,
			shift = $12, bank_account_number = $13, bank_name = $14, ifsc_code = $15,
			account_holder_name = $16, salary = $17, salary_mode = $18, updated_at = NOW()
		WHERE employee_id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		emp.ID, emp.FirstName, emp.LastName, emp.Role, emp.DepartmentID, emp.Phone,
		emp.Email, emp.Address, emp.DOB, emp.Gender, emp.EmergencyContact, emp.Shift,
		emp.BankAccountNumber, emp.BankName, emp.IFSCCode, emp.AccountHolderName,
		emp.Salary, emp.SalaryMode,
	)
	if err != nil {
		return database.Translate(err, "employee")
	}
	return requireRow(result, "employee")
}

// Deactivate marks an employee Inactive from the given time
func (r *EmployeeRepository) Deactivate(ctx context.Context, id int64, at time.Time) error {
	query := `
		UPDATE employees
		SET status = 'Inactive', inactive_since = $2, updated_at = NOW()
		WHERE employee_id = $1 AND status = 'Active'
	`

	result, err := r.db.ExecContext(ctx, query, id, at)
	if err != nil {
		return err
	}
	return requireRow(result, "active employee")
}

// Delete hard-deletes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM employees WHERE employee_id = $1`, id)
	if err != nil {
		return database.Translate(err, "employee")
	}
	return requireRow(result, "employee")
}

// ListActive returns every Active employee ordered by department then ID
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]*ActiveEmployee, error) {
	query := `
		SELECT employee_id, department_id, salary
		FROM employees
		WHERE status = 'Active'
		ORDER BY department_id NULLS LAST, employee_id
	`

	var employees []*ActiveEmployee
	if err := r.db.SelectContext(ctx, &employees, query); err != nil {
		return nil, err
	}
	return employees, nil
}

// PurgeInactive deletes employees inactive since before cutoff whose role is
// not listed in keepRoles, returning the removed IDs.
func (r *EmployeeRepository) PurgeInactive(ctx context.Context, cutoff time.Time, keepRoles []string) ([]int64, error) {
	query := `
		DELETE FROM employees
		WHERE status = 'Inactive'
		  AND inactive_since IS NOT NULL
		  AND inactive_since < $1
		  AND role <> ALL($2)
		RETURNING employee_id
	`

	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, query, cutoff, pq.Array(keepRoles)); err != nil {
		return nil, err
	}
	return ids, nil
}

func requireRow(result sql.Result, resource string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return errors.NotFound(resource)
	}
	return nil
}
