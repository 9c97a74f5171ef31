package service

import (
	"context"
	"database/sql/driver"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var june2024 = time.Date(2024, time.June, 12, 9, 30, 0, 0, time.UTC)

func newPayrollService(t *testing.T, mail *testutil.MockMailer) (*PayrollService, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	svc := NewPayrollService(
		repository.NewPayrollRepository(mockDB.Wrapped),
		repository.NewEmployeeRepository(mockDB.Wrapped),
		repository.NewAttendanceRepository(mockDB.Wrapped),
		mail,
		nil,
		nil,
		config.PayrollConfig{StandardHoursPerDay: 8, AnnualLeaveDays: 12},
		logger.Nop(),
	)
	svc.now = func() time.Time { return june2024 }
	return svc, mockDB
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// ============================================================================
// COMPUTATION
// ============================================================================

func TestComputePayroll(t *testing.T) {
	tests := []struct {
		name          string
		base          string
		leaveDays     int
		days          int
		wantDeduction string
		wantHourly    string
		wantNet       string
	}{
		{"no leave", "3000", 0, 22, "0", "17.05", "3000"},
		{"leave within allowance", "3000", 1, 22, "0", "17.05", "3000"},
		{"one day over allowance", "3000", 2, 22, "136.36", "17.05", "2863.64"},
		{"three days over allowance", "3100", 4, 31, "300", "12.5", "2800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePayroll(PayrollInput{
				BaseSalary:   dec(tt.base),
				TotalHours:   dec("176"),
				LeaveDays:    tt.leaveDays,
				DaysInMonth:  tt.days,
				HoursPerDay:  8,
				AllowedLeave: 1,
			})

			assert.True(t, dec(tt.wantDeduction).Equal(got.LeaveDeduction), "deduction %s", got.LeaveDeduction)
			assert.True(t, dec(tt.wantHourly).Equal(got.HourlyRate), "hourly %s", got.HourlyRate)
			assert.True(t, dec(tt.wantNet).Equal(got.NetSalary), "net %s", got.NetSalary)
			assert.True(t, got.Bonus.IsZero())
		})
	}
}

func TestAllowedLeavePerMonth(t *testing.T) {
	assert.Equal(t, 1, AllowedLeavePerMonth(12))
	assert.Equal(t, 1, AllowedLeavePerMonth(1))
	assert.Equal(t, 2, AllowedLeavePerMonth(18))
	assert.Equal(t, 0, AllowedLeavePerMonth(0))
}

// ============================================================================
// MONTHLY RUN
// ============================================================================

func expectPayrollExists(mockDB *testutil.MockDB, exists bool) {
	mockDB.ExpectQuery(`SELECT EXISTS (SELECT 1 FROM payroll WHERE payroll_month = $1 AND payroll_year = $2)`).
		WithArgs(6, 2024).
		WillReturnRows(testutil.MockRows("exists").AddRow(exists))
}

func expectActiveEmployees(mockDB *testutil.MockDB, rows ...[]driver.Value) {
	r := testutil.MockRows("employee_id", "department_id", "salary")
	for _, row := range rows {
		r.AddRow(row...)
	}
	mockDB.ExpectQuery(`FROM employees WHERE status = 'Active' ORDER BY department_id NULLS LAST, employee_id`).
		WillReturnRows(r)
}

func expectTotals(mockDB *testutil.MockDB, employeeID int64, hours string, leaveDays int) {
	mockDB.ExpectQuery(`FROM attendance WHERE employee_id = $1 AND attendance_date BETWEEN $2 AND $3`).
		WithArgs(employeeID,
			time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)).
		WillReturnRows(testutil.MockRows("total_hours", "leave_days").AddRow(hours, leaveDays))
}

func TestProcessMonthlyPayroll(t *testing.T) {
	ctx := context.Background()

	t.Run("one row per active employee", func(t *testing.T) {
		svc, mockDB := newPayrollService(t, testutil.NewMockMailer(nil))

		expectPayrollExists(mockDB, false)
		expectActiveEmployees(mockDB,
			[]driver.Value{int64(1), int64(10), "3000.00"},
			[]driver.Value{int64(2), nil, "4500.00"},
		)

		// 30 days in June: 3000/30 * (3-1) = 200
		expectTotals(mockDB, 1, "160.00", 3)
		mockDB.ExpectQuery(`INSERT INTO payroll`).
			WithArgs(int64(1), 6, 2024, dec("3000"), dec("160"), dec("200"), dec("0"), dec("12.5"), dec("2800")).
			WillReturnRows(testutil.MockRows("payroll_id", "processed_at").AddRow(1, june2024))

		expectTotals(mockDB, 2, "176.00", 1)
		mockDB.ExpectQuery(`INSERT INTO payroll`).
			WithArgs(int64(2), 6, 2024, dec("4500"), dec("176"), dec("0"), dec("0"), dec("18.75"), dec("4500")).
			WillReturnRows(testutil.MockRows("payroll_id", "processed_at").AddRow(2, june2024))

		run, err := svc.ProcessMonthlyPayroll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 6, run.Month)
		assert.Equal(t, 2024, run.Year)
		assert.Equal(t, 2, run.Processed)
		assert.Empty(t, run.Failed)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("second run for the month conflicts", func(t *testing.T) {
		svc, mockDB := newPayrollService(t, testutil.NewMockMailer(nil))

		expectPayrollExists(mockDB, true)

		run, err := svc.ProcessMonthlyPayroll(ctx)
		assert.Nil(t, run)
		assert.True(t, errors.Is(err, errors.ErrConflict))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("one failing employee does not stop the run", func(t *testing.T) {
		svc, mockDB := newPayrollService(t, testutil.NewMockMailer(nil))

		expectPayrollExists(mockDB, false)
		expectActiveEmployees(mockDB,
			[]driver.Value{int64(1), int64(10), "3000.00"},
			[]driver.Value{int64(2), int64(10), "3000.00"},
		)

		expectTotals(mockDB, 1, "0", 0)
		mockDB.ExpectQuery(`INSERT INTO payroll`).
			WillReturnError(fmt.Errorf("connection reset"))

		expectTotals(mockDB, 2, "0", 0)
		mockDB.ExpectQuery(`INSERT INTO payroll`).
			WillReturnRows(testutil.MockRows("payroll_id", "processed_at").AddRow(5, june2024))

		run, err := svc.ProcessMonthlyPayroll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, run.Processed)
		assert.Equal(t, []int64{1}, run.Failed)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestGetPayrollStatus(t *testing.T) {
	ctx := context.Background()

	for exists, want := range map[bool]string{true: PayrollProcessed, false: PayrollPending} {
		svc, mockDB := newPayrollService(t, testutil.NewMockMailer(nil))
		expectPayrollExists(mockDB, exists)

		status, err := svc.GetPayrollStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, status.Status)
		assert.Equal(t, 6, status.Month)
		mockDB.ExpectationsWereMet(t)
	}
}

// ============================================================================
// PAYSLIPS
// ============================================================================

var payslipColumns = []string{
	"payroll_id", "employee_id", "employee_name", "payroll_month", "payroll_year", "base_salary",
	"total_hours_worked", "leave_deduction", "bonus", "hourly_rate", "net_salary", "processed_at",
	"role", "email", "department_name", "bank_name", "bank_account_number",
}

func expectPayslip(mockDB *testutil.MockDB, employeeID int64) *sqlmock.ExpectedQuery {
	return mockDB.ExpectQuery(`WHERE p.employee_id = $1 AND p.payroll_month = $2 AND p.payroll_year = $3`).
		WithArgs(employeeID, 6, 2024)
}

func TestSendPayslipByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("sends the pdf to the employee", func(t *testing.T) {
		mail := testutil.NewMockMailer(nil)
		svc, mockDB := newPayrollService(t, mail)

		expectPayslip(mockDB, 4).WillReturnRows(testutil.MockRows(payslipColumns...).AddRow(
			1, 4, "Ravi Kumar", 6, 2024, "3000.00", "176.00", "136.36", "0", "17.05", "2863.64", june2024,
			"Cashier", "ravi@example.com", "Sales", "State Bank", "001122334455",
		))

		require.NoError(t, svc.SendPayslipByEmail(ctx, 4))
		require.Equal(t, 1, mail.Count())

		msg := mail.Sent[0]
		assert.Equal(t, "ravi@example.com", msg.To)
		assert.Contains(t, msg.Subject, "June 2024")
		require.Len(t, msg.Attachments, 1)
		assert.Equal(t, "payslip-4-2024-06.pdf", msg.Attachments[0].Filename)
		assert.Equal(t, "%PDF", string(msg.Attachments[0].Content[:4]))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("no payroll row is not found", func(t *testing.T) {
		mail := testutil.NewMockMailer(nil)
		svc, mockDB := newPayrollService(t, mail)

		expectPayslip(mockDB, 9).WillReturnRows(testutil.MockRows(payslipColumns...))

		err := svc.SendPayslipByEmail(ctx, 9)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		assert.Zero(t, mail.Count())
	})

	t.Run("mail failure is a dependency error", func(t *testing.T) {
		mail := testutil.NewMockMailer(fmt.Errorf("smtp: 421 service not available"))
		svc, mockDB := newPayrollService(t, mail)

		expectPayslip(mockDB, 4).WillReturnRows(testutil.MockRows(payslipColumns...).AddRow(
			1, 4, "Ravi Kumar", 6, 2024, "3000.00", "176.00", "0", "0", "12.50", "3000.00", june2024,
			"Cashier", "ravi@example.com", nil, nil, nil,
		))

		err := svc.SendPayslipByEmail(ctx, 4)
		assert.True(t, errors.Is(err, errors.ErrDependency))
		mockDB.ExpectationsWereMet(t)
	})
}
