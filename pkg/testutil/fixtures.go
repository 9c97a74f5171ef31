package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPassword is the plain-text password of every employee fixture
const DefaultPassword = "password123"

// EmployeeFixture represents test employee data
type EmployeeFixture struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	Role         string
	DepartmentID *int64
	Status       string
	Salary       string
	PasswordHash string
	HireDate     time.Time
}

// SupplierFixture represents test supplier data
type SupplierFixture struct {
	ID            int64
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	GSTNumber     string
}

// ProductFixture represents test product data
type ProductFixture struct {
	ID           int64
	Name         string
	CategoryID   int64
	SupplierID   *int64
	Unit         string
	ReorderLevel int
}

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
	hash     string
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	hash, _ := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	return &FixtureFactory{hash: string(hash)}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Employee creates an employee fixture with defaults
func (f *FixtureFactory) Employee(opts ...func(*EmployeeFixture)) EmployeeFixture {
	seq := f.nextSeq()

	emp := EmployeeFixture{
		FirstName:    fmt.Sprintf("Employee%d", seq),
		LastName:     "Test",
		Email:        fmt.Sprintf("employee%d@shop.test", seq),
		Role:         "Cashier",
		Status:       "Active",
		Salary:       "3000.00",
		PasswordHash: f.hash,
		HireDate:     time.Now().AddDate(-1, 0, 0),
	}

	for _, opt := range opts {
		opt(&emp)
	}

	return emp
}

// WithEmployeeName sets the employee's first and last name
func WithEmployeeName(first, last string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.FirstName = first
		e.LastName = last
	}
}

// WithRole sets the employee's role
func WithRole(role string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.Role = role
	}
}

// WithDepartment sets the employee's department
func WithDepartment(departmentID int64) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.DepartmentID = &departmentID
	}
}

// WithEmployeeStatus sets the employee's status
func WithEmployeeStatus(status string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.Status = status
	}
}

// WithSalary sets the employee's monthly base salary
func WithSalary(salary string) func(*EmployeeFixture) {
	return func(e *EmployeeFixture) {
		e.Salary = salary
	}
}

// Supplier creates a supplier fixture with defaults
func (f *FixtureFactory) Supplier() SupplierFixture {
	seq := f.nextSeq()

	return SupplierFixture{
		Name:          fmt.Sprintf("Supplier %d", seq),
		ContactPerson: "Ravi Kumar",
		Phone:         "+91-22-5550100",
		Email:         fmt.Sprintf("orders%d@supplier.test", seq),
		GSTNumber:     fmt.Sprintf("27AAAPL%04dC1Z5", seq),
	}
}

// Product creates a product fixture with defaults
func (f *FixtureFactory) Product(categoryID int64, supplierID *int64) ProductFixture {
	seq := f.nextSeq()

	return ProductFixture{
		Name:         fmt.Sprintf("Product %d", seq),
		CategoryID:   categoryID,
		SupplierID:   supplierID,
		Unit:         "pcs",
		ReorderLevel: 10,
	}
}

// SeedDepartment inserts a department and returns its ID
func SeedDepartment(ctx context.Context, db *sqlx.DB, name string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id,
		`INSERT INTO departments (department_name) VALUES ($1) RETURNING department_id`, name)
	return id, err
}

// SeedEmployee inserts the fixture and stores the generated ID on it
func SeedEmployee(ctx context.Context, db *sqlx.DB, e *EmployeeFixture) error {
	return db.GetContext(ctx, &e.ID, `
		INSERT INTO employees (first_name, last_name, email, role, department_id, status, salary, password_hash, hire_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING employee_id
	`, e.FirstName, e.LastName, e.Email, e.Role, e.DepartmentID, e.Status, e.Salary, e.PasswordHash, e.HireDate)
}

// SeedSupplier inserts the fixture and stores the generated ID on it
func SeedSupplier(ctx context.Context, db *sqlx.DB, s *SupplierFixture) error {
	return db.GetContext(ctx, &s.ID, `
		INSERT INTO suppliers (supplier_name, contact_person, phone, email, gst_number)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING supplier_id
	`, s.Name, s.ContactPerson, s.Phone, s.Email, s.GSTNumber)
}

// SeedCategory inserts a product category and returns its ID
func SeedCategory(ctx context.Context, db *sqlx.DB, name string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id,
		`INSERT INTO product_categories (category_name) VALUES ($1) RETURNING category_id`, name)
	return id, err
}

// SeedProduct inserts the fixture and stores the generated ID on it
func SeedProduct(ctx context.Context, db *sqlx.DB, p *ProductFixture) error {
	return db.GetContext(ctx, &p.ID, `
		INSERT INTO products (product_name, category_id, supplier_id, unit, reorder_level)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING product_id
	`, p.Name, p.CategoryID, p.SupplierID, p.Unit, p.ReorderLevel)
}

// SeedBatch inserts an inventory batch for a product and returns its ID
func SeedBatch(ctx context.Context, db *sqlx.DB, productID int64, quantity int, purchaseRate string) (int64, error) {
	var id int64
	err := db.GetContext(ctx, &id, `
		INSERT INTO inventory_batches (product_id, quantity, cost_per_unit, purchase_rate, sales_rate)
		VALUES ($1, $2, $3, $3, $3)
		RETURNING batch_id
	`, productID, quantity, purchaseRate)
	return id, err
}
