package service

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/internal/hr/events"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/permissions"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const dateLayout = "2006-01-02"

// EmployeeInput carries the editable fields of an employee
type EmployeeInput struct {
	FirstName         string          `json:"first_name" validate:"required,max=100"`
	LastName          string          `json:"last_name" validate:"required,max=100"`
	Role              string          `json:"role" validate:"required"`
	DepartmentID      *int64          `json:"department_id" validate:"omitempty,gt=0"`
	Phone             *string         `json:"phone" validate:"omitempty,max=30"`
	Email             string          `json:"email" validate:"required,email"`
	Address           *string         `json:"address"`
	DOB               *string         `json:"dob" validate:"omitempty,datetime=2006-01-02"`
	Gender            *string         `json:"gender" validate:"omitempty,max=20"`
	EmergencyContact  *string         `json:"emergency_contact" validate:"omitempty,max=100"`
	HireDate          *string         `json:"hire_date" validate:"omitempty,datetime=2006-01-02"`
	Shift             *string         `json:"shift" validate:"omitempty,max=20"`
	Password          string          `json:"password" validate:"omitempty,min=8"`
	BankAccountNumber *string         `json:"bank_account_number" validate:"omitempty,max=40"`
	BankName          *string         `json:"bank_name" validate:"omitempty,max=100"`
	IFSCCode          *string         `json:"ifsc_code" validate:"omitempty,max=20"`
	AccountHolderName *string         `json:"account_holder_name" validate:"omitempty,max=100"`
	Salary            decimal.Decimal `json:"salary"`
	SalaryMode        *string         `json:"salary_mode" validate:"omitempty,max=20"`
}

// EmployeeService handles employee and department administration.
// The HR surface never touches employees holding a protected role; the
// admin surface is unrestricted.
type EmployeeService struct {
	employeeRepo   *repository.EmployeeRepository
	departmentRepo *repository.DepartmentRepository
	publisher      *events.HREventPublisher
	logger         *logger.Logger
	now            func() time.Time
}

// NewEmployeeService creates a new employee service
func NewEmployeeService(
	employeeRepo *repository.EmployeeRepository,
	departmentRepo *repository.DepartmentRepository,
	publisher *events.HREventPublisher,
	log *logger.Logger,
) *EmployeeService {
	return &EmployeeService{
		employeeRepo:   employeeRepo,
		departmentRepo: departmentRepo,
		publisher:      publisher,
		logger:         log,
		now:            time.Now,
	}
}

// ============================================================================
// DEPARTMENTS
// ============================================================================

// ListDepartments lists all departments
func (s *EmployeeService) ListDepartments(ctx context.Context) ([]*repository.Department, error) {
	return s.departmentRepo.List(ctx)
}

// CreateDepartment creates a department
func (s *EmployeeService) CreateDepartment(ctx context.Context, dept *repository.Department) error {
	if err := s.departmentRepo.Create(ctx, dept); err != nil {
		return err
	}
	s.logger.Info().Int64("department_id", dept.ID).Str("name", dept.Name).Msg("department created")
	return nil
}

// DeleteDepartment deletes a department
func (s *EmployeeService) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("department_id", id).Msg("department deleted")
	return nil
}

// ============================================================================
// EMPLOYEES
// ============================================================================

// List lists employees. With hrScope set, protected roles are left out.
func (s *EmployeeService) List(ctx context.Context, filter repository.EmployeeFilter, hrScope bool) ([]*repository.Employee, error) {
	if hrScope {
		filter.ExcludeRoles = permissions.ProtectedRoles()
	}
	return s.employeeRepo.List(ctx, filter)
}

// Get gets one employee
func (s *EmployeeService) Get(ctx context.Context, id int64, hrScope bool) (*repository.Employee, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if hrScope && permissions.IsProtectedRole(emp.Role) {
		return nil, errors.Forbidden("employee is managed by administrators")
	}
	return emp, nil
}

// Create creates an employee with a bcrypt-hashed password
func (s *EmployeeService) Create(ctx context.Context, in *EmployeeInput, hrScope bool) (*repository.Employee, error) {
	if err := checkRole(in.Role, hrScope); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, errors.Validation(map[string]string{"password": "is required"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Internal("failed to hash password")
	}

	emp := &repository.Employee{
		Status:       repository.StatusActive,
		PasswordHash: string(hash),
		HireDate:     dateOf(s.now()),
	}
	if err := applyInput(emp, in); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Create(ctx, emp); err != nil {
		return nil, err
	}

	s.publisher.PublishEmployeeCreated(ctx, emp)

	s.logger.Info().
		Int64("employee_id", emp.ID).
		Str("role", emp.Role).
		Msg("employee created")

	return emp, nil
}

// Update updates an employee's editable fields
func (s *EmployeeService) Update(ctx context.Context, id int64, in *EmployeeInput, hrScope bool) (*repository.Employee, error) {
	emp, err := s.Get(ctx, id, hrScope)
	if err != nil {
		return nil, err
	}
	if err := checkRole(in.Role, hrScope); err != nil {
		return nil, err
	}
	if err := applyInput(emp, in); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Update(ctx, emp); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("employee_id", id).Msg("employee updated")
	return emp, nil
}

// Deactivate marks an employee Inactive from now
func (s *EmployeeService) Deactivate(ctx context.Context, id int64, hrScope bool) error {
	if _, err := s.Get(ctx, id, hrScope); err != nil {
		return err
	}
	if err := s.employeeRepo.Deactivate(ctx, id, s.now()); err != nil {
		return err
	}

	s.publisher.PublishEmployeeDeactivated(ctx, id)
	s.logger.Info().Int64("employee_id", id).Msg("employee deactivated")
	return nil
}

// Delete hard-deletes an employee
func (s *EmployeeService) Delete(ctx context.Context, id int64, hrScope bool) error {
	if hrScope {
		if _, err := s.Get(ctx, id, hrScope); err != nil {
			return err
		}
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Int64("employee_id", id).Msg("employee deleted")
	return nil
}

// PurgeInactiveEmployees hard-deletes employees inactive for more than
// twelve months. Protected roles are never purged.
func (s *EmployeeService) PurgeInactiveEmployees(ctx context.Context) (int, error) {
	cutoff := s.now().AddDate(-1, 0, 0)

	ids, err := s.employeeRepo.PurgeInactive(ctx, cutoff, permissions.ProtectedRoles())
	if err != nil {
		return 0, err
	}

	s.publisher.PublishEmployeePurged(ctx, ids)

	s.logger.Info().
		Time("cutoff", cutoff).
		Int("purged", len(ids)).
		Msg("inactive employees purged")

	return len(ids), nil
}

func checkRole(role string, hrScope bool) error {
	if !permissions.IsValidRole(role) {
		return errors.Validation(map[string]string{"role": "is not a known role"})
	}
	if hrScope && permissions.IsProtectedRole(role) {
		return errors.Forbidden("HR cannot assign the " + role + " role")
	}
	return nil
}

func applyInput(emp *repository.Employee, in *EmployeeInput) error {
	emp.FirstName = in.FirstName
	emp.LastName = in.LastName
	emp.Role = in.Role
	emp.DepartmentID = in.DepartmentID
	emp.Phone = in.Phone
	emp.Email = in.Email
	emp.Address = in.Address
	emp.Gender = in.Gender
	emp.EmergencyContact = in.EmergencyContact
	emp.Shift = in.Shift
	emp.BankAccountNumber = in.BankAccountNumber
	emp.BankName = in.BankName
	emp.IFSCCode = in.IFSCCode
	emp.AccountHolderName = in.AccountHolderName
	emp.Salary = in.Salary
	emp.SalaryMode = in.SalaryMode

	if in.DOB != nil {
		dob, err := time.Parse(dateLayout, *in.DOB)
		if err != nil {
			return errors.Validation(map[string]string{"dob": "must be YYYY-MM-DD"})
		}
		emp.DOB = &dob
	}
	if in.HireDate != nil {
		hire, err := time.Parse(dateLayout, *in.HireDate)
		if err != nil {
			return errors.Validation(map[string]string{"hire_date": "must be YYYY-MM-DD"})
		}
		emp.HireDate = hire
	}
	if in.Salary.IsNegative() {
		return errors.Validation(map[string]string{"salary": "must not be negative"})
	}
	return nil
}
