package repository

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
)

// Department represents a department
type Department struct {
	ID            int64     `db:"department_id" json:"department_id"`
	Name          string    `db:"department_name" json:"department_name"`
	ManagerID     *int64    `db:"manager_id" json:"manager_id,omitempty"`
	EmployeeCount int       `db:"employee_count" json:"employee_count"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// DepartmentRepository handles department persistence
type DepartmentRepository struct {
	db *database.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *database.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// List lists departments with their employee counts
func (r *DepartmentRepository) List(ctx context.Context) ([]*Department, error) {
	query := `
		SELECT d.department_id, d.department_name, d.manager_id, d.created_at,
		       COUNT(e.employee_id) AS employee_count
		FROM departments d
		LEFT JOIN employees e ON e.department_id = d.department_id
		GROUP BY d.department_id
		ORDER BY d.department_name
	`

	var departments []*Department
	if err := r.db.SelectContext(ctx, &departments, query); err != nil {
		return nil, err
	}
	return departments, nil
}

// Create inserts a department; a duplicate name is a Conflict
func (r *DepartmentRepository) Create(ctx context.Context, dept *Department) error {
	query := `
		INSERT INTO departments (department_name, manager_id)
		VALUES ($1, $2)
		RETURNING department_id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, dept.Name, dept.ManagerID).Scan(&dept.ID, &dept.CreatedAt)
	return database.Translate(err, "department")
}

// Delete deletes a department
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE department_id = $1`, id)
	if err != nil {
		return database.Translate(err, "department")
	}
	return requireRow(result, "department")
}
