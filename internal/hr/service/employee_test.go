package service

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/retailhub/backoffice/internal/hr/repository"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/permissions"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployeeService(t *testing.T) (*EmployeeService, *testutil.MockDB) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	svc := NewEmployeeService(
		repository.NewEmployeeRepository(mockDB.Wrapped),
		repository.NewDepartmentRepository(mockDB.Wrapped),
		nil,
		logger.Nop(),
	)
	svc.now = func() time.Time { return june2024 }
	return svc, mockDB
}

var employeeColumns = []string{
	"employee_id", "first_name", "last_name", "role", "department_id", "department_name",
	"phone", "email", "address", "dob", "gender", "emergency_contact", "hire_date", "shift",
	"status", "inactive_since", "bank_account_number", "bank_name", "ifsc_code",
	"account_holder_name", "salary", "salary_mode", "created_at", "updated_at",
}

func employeeRow(id int64, role string) *sqlmock.Rows {
	return testutil.MockRows(employeeColumns...).AddRow(
		id, "Kiran", "Rao", role, 1, "Operations",
		nil, "kiran@example.com", nil, nil, nil, nil, june2024, nil,
		"Active", nil, nil, nil, nil,
		nil, "2500.00", nil, june2024, june2024,
	)
}

func TestHRScopeRefusesProtectedRoles(t *testing.T) {
	ctx := context.Background()

	t.Run("create with a protected role is forbidden", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)

		_, err := svc.Create(ctx, &EmployeeInput{
			FirstName: "A", LastName: "B", Role: permissions.RoleAdmin, Email: "a@example.com", Password: "password123",
		}, true)
		assert.True(t, errors.Is(err, errors.ErrForbidden))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("deactivating an HR manager is forbidden", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)

		mockDB.ExpectQuery(`WHERE e.employee_id = $1`).
			WithArgs(int64(2)).
			WillReturnRows(employeeRow(2, permissions.RoleHRManager))

		err := svc.Deactivate(ctx, 2, true)
		assert.True(t, errors.Is(err, errors.ErrForbidden))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("admin scope may delete anyone", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)

		mockDB.ExpectExec(`DELETE FROM employees WHERE employee_id = $1`).
			WithArgs(int64(2)).
			WillReturnResult(sqlmockResult(1))

		require.NoError(t, svc.Delete(ctx, 2, false))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("hr listing excludes protected roles", func(t *testing.T) {
		svc, mockDB := newEmployeeService(t)

		mockDB.ExpectQuery(`WHERE e.role <> ALL($1)`).
			WithArgs(pq.Array(permissions.ProtectedRoles())).
			WillReturnRows(employeeRow(5, permissions.RoleCashier))

		employees, err := svc.List(ctx, repository.EmployeeFilter{}, true)
		require.NoError(t, err)
		require.Len(t, employees, 1)
		assert.True(t, decimal.RequireFromString("2500").Equal(employees[0].Salary))
		mockDB.ExpectationsWereMet(t)
	})
}

func TestDeactivate(t *testing.T) {
	svc, mockDB := newEmployeeService(t)

	mockDB.ExpectQuery(`WHERE e.employee_id = $1`).
		WithArgs(int64(5)).
		WillReturnRows(employeeRow(5, permissions.RoleCashier))
	mockDB.ExpectExec(`SET status = 'Inactive', inactive_since = $2`).
		WithArgs(int64(5), june2024).
		WillReturnResult(sqlmockResult(1))

	require.NoError(t, svc.Deactivate(context.Background(), 5, true))
	mockDB.ExpectationsWereMet(t)
}

func TestPurgeInactiveEmployees(t *testing.T) {
	svc, mockDB := newEmployeeService(t)

	mockDB.ExpectQuery(`DELETE FROM employees WHERE status = 'Inactive'`).
		WithArgs(june2024.AddDate(-1, 0, 0), pq.Array(permissions.ProtectedRoles())).
		WillReturnRows(testutil.MockRows("employee_id").AddRow(14).AddRow(15))

	purged, err := svc.PurgeInactiveEmployees(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, purged)
	mockDB.ExpectationsWereMet(t)
}
