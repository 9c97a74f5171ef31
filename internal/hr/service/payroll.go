package service

import (
	"context"
	"math"
	"time"

	"github.com/retailhub/backoffice/internal/hr/events"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/document"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/mailer"
	"github.com/retailhub/backoffice/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Payroll statuses reported for the current month
const (
	PayrollProcessed = "Processed"
	PayrollPending   = "Pending"
)

// PayrollInput is what one employee's payroll is computed from
type PayrollInput struct {
	BaseSalary   decimal.Decimal
	TotalHours   decimal.Decimal
	LeaveDays    int
	DaysInMonth  int
	HoursPerDay  int
	AllowedLeave int
}

// PayrollAmounts is the derived part of a payroll row
type PayrollAmounts struct {
	LeaveDeduction decimal.Decimal
	Bonus          decimal.Decimal
	HourlyRate     decimal.Decimal
	NetSalary      decimal.Decimal
}

// ComputePayroll derives the payroll amounts, rounded to cents:
//
//	leave_deduction = base / days_in_month * (leave_days - allowed), when leave_days > allowed
//	hourly_rate     = base / (days_in_month * hours_per_day)
//	net_salary      = base + bonus - leave_deduction
//
// The bonus is always zero at processing time.
func ComputePayroll(in PayrollInput) PayrollAmounts {
	days := decimal.NewFromInt(int64(in.DaysInMonth))

	deduction := decimal.Zero
	if excess := in.LeaveDays - in.AllowedLeave; excess > 0 {
		deduction = in.BaseSalary.Div(days).Mul(decimal.NewFromInt(int64(excess))).Round(2)
	}

	hourly := in.BaseSalary.Div(days.Mul(decimal.NewFromInt(int64(in.HoursPerDay)))).Round(2)
	bonus := decimal.Zero

	return PayrollAmounts{
		LeaveDeduction: deduction,
		Bonus:          bonus,
		HourlyRate:     hourly,
		NetSalary:      in.BaseSalary.Add(bonus).Sub(deduction).Round(2),
	}
}

// AllowedLeavePerMonth spreads the annual allowance evenly over the year,
// rounding up. With the default allowance of 12 this is always 1.
func AllowedLeavePerMonth(annual int) int {
	return int(math.Ceil(float64(annual) / 12))
}

// PayrollRun reports one ProcessMonthlyPayroll call
type PayrollRun struct {
	Month     int     `json:"month"`
	Year      int     `json:"year"`
	Processed int     `json:"processed"`
	Failed    []int64 `json:"failed_employee_ids,omitempty"`
}

// PayrollStatus reports whether the current month is processed
type PayrollStatus struct {
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Status string `json:"status"`
}

// PayrollService runs the monthly payroll and payslip delivery
type PayrollService struct {
	payrollRepo    *repository.PayrollRepository
	employeeRepo   *repository.EmployeeRepository
	attendanceRepo *repository.AttendanceRepository
	mail           mailer.Sender
	publisher      *events.HREventPublisher
	metrics        *metrics.Metrics
	policy         config.PayrollConfig
	logger         *logger.Logger
	now            func() time.Time
}

// NewPayrollService creates a new payroll service
func NewPayrollService(
	payrollRepo *repository.PayrollRepository,
	employeeRepo *repository.EmployeeRepository,
	attendanceRepo *repository.AttendanceRepository,
	mail mailer.Sender,
	publisher *events.HREventPublisher,
	m *metrics.Metrics,
	policy config.PayrollConfig,
	log *logger.Logger,
) *PayrollService {
	return &PayrollService{
		payrollRepo:    payrollRepo,
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		mail:           mail,
		publisher:      publisher,
		metrics:        m,
		policy:         policy,
		logger:         log,
		now:            time.Now,
	}
}

// ProcessMonthlyPayroll creates one payroll row per Active employee for the
// current month. It refuses with a conflict once any row exists for the
// month. Employees are processed independently: a failed insert is logged
// and the run moves on.
func (s *PayrollService) ProcessMonthlyPayroll(ctx context.Context) (*PayrollRun, error) {
	today := s.now()
	month, year := int(today.Month()), today.Year()

	exists, err := s.payrollRepo.ExistsForMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errors.Conflict("payroll already processed for this month")
	}

	employees, err := s.employeeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := monthBounds(today)
	allowed := AllowedLeavePerMonth(s.policy.AnnualLeaveDays)
	run := &PayrollRun{Month: month, Year: year}

	for _, emp := range employees {
		if err := s.processEmployee(ctx, emp, monthStart, monthEnd, allowed); err != nil {
			s.metrics.RecordPayroll("failed")
			s.logger.Error().Err(err).
				Int64("employee_id", emp.ID).
				Int("payroll_month", month).
				Int("payroll_year", year).
				Msg("failed to process payroll for employee")
			run.Failed = append(run.Failed, emp.ID)
			continue
		}
		s.metrics.RecordPayroll("created")
		run.Processed++
	}

	s.publisher.PublishPayrollProcessed(ctx, month, year, run.Processed, len(run.Failed))

	s.logger.Info().
		Int("payroll_month", month).
		Int("payroll_year", year).
		Int("processed", run.Processed).
		Int("failed", len(run.Failed)).
		Msg("monthly payroll processed")

	return run, nil
}

func (s *PayrollService) processEmployee(ctx context.Context, emp *repository.ActiveEmployee, from, to time.Time, allowed int) error {
	totals, err := s.attendanceRepo.Totals(ctx, emp.ID, from, to)
	if err != nil {
		return err
	}

	amounts := ComputePayroll(PayrollInput{
		BaseSalary:   emp.Salary,
		TotalHours:   totals.TotalHours,
		LeaveDays:    totals.LeaveDays,
		DaysInMonth:  to.Day(),
		HoursPerDay:  s.policy.StandardHoursPerDay,
		AllowedLeave: allowed,
	})

	return s.payrollRepo.Create(ctx, &repository.Payroll{
		EmployeeID:       emp.ID,
		Month:            int(from.Month()),
		Year:             from.Year(),
		BaseSalary:       emp.Salary,
		TotalHoursWorked: totals.TotalHours,
		LeaveDeduction:   amounts.LeaveDeduction,
		Bonus:            amounts.Bonus,
		HourlyRate:       amounts.HourlyRate,
		NetSalary:        amounts.NetSalary,
	})
}

// GetPayrollStatus reports Processed or Pending for the current month
func (s *PayrollService) GetPayrollStatus(ctx context.Context) (*PayrollStatus, error) {
	today := s.now()
	month, year := int(today.Month()), today.Year()

	exists, err := s.payrollRepo.ExistsForMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}

	status := PayrollPending
	if exists {
		status = PayrollProcessed
	}
	return &PayrollStatus{Month: month, Year: year, Status: status}, nil
}

// List lists the current month's payroll
func (s *PayrollService) List(ctx context.Context) ([]*repository.Payroll, error) {
	today := s.now()
	return s.payrollRepo.ListForMonth(ctx, int(today.Month()), today.Year())
}

// GetPayslip returns the current month's payslip data of an employee
func (s *PayrollService) GetPayslip(ctx context.Context, employeeID int64) (*document.Payslip, error) {
	today := s.now()
	row, err := s.payrollRepo.GetPayslip(ctx, employeeID, int(today.Month()), today.Year())
	if err != nil {
		return nil, err
	}
	return toPayslip(row), nil
}

// GeneratePayslip renders the current month's payslip of an employee as a PDF
func (s *PayrollService) GeneratePayslip(ctx context.Context, employeeID int64) (*document.Payslip, []byte, error) {
	slip, err := s.GetPayslip(ctx, employeeID)
	if err != nil {
		return nil, nil, err
	}

	pdf, err := document.RenderPayslipPDF(*slip)
	if err != nil {
		s.metrics.RecordDependencyError("document")
		return nil, nil, errors.Dependency("payslip rendering", err)
	}
	return slip, pdf, nil
}

// SendPayslipByEmail mails the payslip PDF to the employee. A delivery
// failure is reported but leaves the payroll row in place.
func (s *PayrollService) SendPayslipByEmail(ctx context.Context, employeeID int64) error {
	slip, pdf, err := s.GeneratePayslip(ctx, employeeID)
	if err != nil {
		return err
	}

	msg := mailer.Message{
		To:      slip.Email,
		Subject: "Your payslip for " + slip.Period(),
		Text: "Dear " + slip.EmployeeName + ",\n\nPlease find attached your payslip for " +
			slip.Period() + ".\nNet salary: " + document.Money(slip.NetSalary) + "\n",
		Attachments: []mailer.Attachment{{
			Filename:    slip.Filename(),
			ContentType: document.ContentTypePDF,
			Content:     pdf,
		}},
	}

	if err := s.mail.Send(ctx, msg); err != nil {
		s.metrics.RecordDependencyError("mail")
		s.logger.Error().Err(err).Int64("employee_id", employeeID).Msg("failed to send payslip")
		return errors.Dependency("payslip email", err)
	}

	s.logger.Info().
		Int64("employee_id", employeeID).
		Int("payroll_month", slip.Month).
		Msg("payslip sent")
	return nil
}

func toPayslip(row *repository.PayslipRow) *document.Payslip {
	return &document.Payslip{
		EmployeeID:       row.EmployeeID,
		EmployeeName:     row.EmployeeName,
		Role:             row.Role,
		Department:       deref(row.DepartmentName),
		Email:            row.Email,
		Month:            row.Month,
		Year:             row.Year,
		BaseSalary:       row.BaseSalary,
		TotalHoursWorked: row.TotalHoursWorked,
		LeaveDeduction:   row.LeaveDeduction,
		Bonus:            row.Bonus,
		HourlyRate:       row.HourlyRate,
		NetSalary:        row.NetSalary,
		BankName:         deref(row.BankName),
		AccountNumber:    deref(row.AccountNumber),
		ProcessedAt:      row.ProcessedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
