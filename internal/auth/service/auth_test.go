package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/retailhub/backoffice/internal/auth/jwt"
	"github.com/retailhub/backoffice/internal/auth/repository"
	"github.com/retailhub/backoffice/internal/auth/service"
	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"github.com/retailhub/backoffice/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const credentialQuery = `
		SELECT employee_id, first_name, last_name, role, department_id, status, password_hash
		FROM employees
		WHERE employee_id = $1
	`

var credentialColumns = []string{"employee_id", "first_name", "last_name", "role", "department_id", "status", "password_hash"}

func newService(t *testing.T) (*service.AuthService, *testutil.MockDB, *jwt.Manager) {
	t.Helper()
	mockDB := testutil.NewMockDB(t)
	t.Cleanup(func() { mockDB.Close() })

	manager := jwt.NewManager(&config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: 8 * time.Hour,
		Issuer:       "backoffice",
	})

	svc := service.NewAuthService(
		repository.NewCredentialRepository(mockDB.Wrapped),
		repository.NewRevocationRepository(mockDB.Wrapped),
		manager,
		logger.Nop(),
	)
	return svc, mockDB, manager
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// ============================================================================
// LOGIN
// ============================================================================

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("active employee gets a token", func(t *testing.T) {
		svc, mockDB, manager := newService(t)
		mockDB.ExpectQuery(credentialQuery).
			WithArgs(int64(7)).
			WillReturnRows(testutil.MockRows(credentialColumns...).
				AddRow(7, "Asha", "Patel", "HR Manager", 2, "Active", hash(t, "secret1")))

		result, err := svc.Login(ctx, &service.LoginRequest{EmployeeID: 7, Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "Asha Patel", result.Employee.Name)
		assert.Equal(t, "HR Manager", result.Employee.Role)

		claims, err := manager.Validate(result.Token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), claims.EmployeeID)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		svc, mockDB, _ := newService(t)
		mockDB.ExpectQuery(credentialQuery).
			WithArgs(int64(7)).
			WillReturnRows(testutil.MockRows(credentialColumns...).
				AddRow(7, "Asha", "Patel", "Cashier", nil, "Active", hash(t, "secret1")))

		_, err := svc.Login(ctx, &service.LoginRequest{EmployeeID: 7, Password: "nope"})
		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	})

	t.Run("unknown employee is unauthorized", func(t *testing.T) {
		svc, mockDB, _ := newService(t)
		mockDB.ExpectQuery(credentialQuery).
			WithArgs(int64(99)).
			WillReturnRows(testutil.MockRows(credentialColumns...))

		_, err := svc.Login(ctx, &service.LoginRequest{EmployeeID: 99, Password: "x"})
		assert.True(t, errors.Is(err, errors.ErrInvalidCredentials))
	})

	t.Run("inactive employee is forbidden", func(t *testing.T) {
		svc, mockDB, _ := newService(t)
		mockDB.ExpectQuery(credentialQuery).
			WithArgs(int64(8)).
			WillReturnRows(testutil.MockRows(credentialColumns...).
				AddRow(8, "Ravi", "Kumar", "Cashier", nil, "Inactive", hash(t, "secret1")))

		_, err := svc.Login(ctx, &service.LoginRequest{EmployeeID: 8, Password: "secret1"})
		assert.True(t, errors.Is(err, errors.ErrForbidden))
	})
}

// ============================================================================
// LOGOUT / AUTHENTICATE
// ============================================================================

func TestLogoutRevokesToken(t *testing.T) {
	svc, mockDB, manager := newService(t)
	token, claims, err := manager.Generate(&jwt.EmployeeInfo{ID: 7, Role: "Cashier"})
	require.NoError(t, err)

	mockDB.ExpectExec(`
		INSERT INTO revoked_tokens (token_id, employee_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_id) DO NOTHING
	`).WithArgs(claims.ID, int64(7), testutil.AnyTime{}).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, svc.Logout(context.Background(), token))
	mockDB.ExpectationsWereMet(t)
}

func TestLogout_InvalidTokenIsNoop(t *testing.T) {
	svc, mockDB, _ := newService(t)
	require.NoError(t, svc.Logout(context.Background(), "garbage"))
	require.NoError(t, svc.Logout(context.Background(), ""))
	mockDB.ExpectationsWereMet(t)
}

func TestAuthenticate(t *testing.T) {
	revokedQuery := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`

	t.Run("valid token", func(t *testing.T) {
		svc, mockDB, manager := newService(t)
		token, claims, err := manager.Generate(&jwt.EmployeeInfo{ID: 3, Name: "Meera Shah", Role: "Cashier"})
		require.NoError(t, err)

		mockDB.ExpectQuery(revokedQuery).
			WithArgs(claims.ID).
			WillReturnRows(testutil.MockRows("exists").AddRow(false))

		a, err := svc.Authenticate(context.Background(), token)
		require.NoError(t, err)
		assert.Equal(t, int64(3), a.EmployeeID)
		assert.Equal(t, "Cashier", a.Role)
		assert.Equal(t, claims.ID, a.TokenID)
	})

	t.Run("revoked token", func(t *testing.T) {
		svc, mockDB, manager := newService(t)
		token, claims, err := manager.Generate(&jwt.EmployeeInfo{ID: 3, Role: "Cashier"})
		require.NoError(t, err)

		mockDB.ExpectQuery(revokedQuery).
			WithArgs(claims.ID).
			WillReturnRows(testutil.MockRows("exists").AddRow(true))

		_, err = svc.Authenticate(context.Background(), token)
		assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	})

	t.Run("missing token", func(t *testing.T) {
		svc, _, _ := newService(t)
		_, err := svc.Authenticate(context.Background(), "")
		assert.True(t, errors.Is(err, errors.ErrUnauthorized))
	})
}
