package database

import (
	"database/sql"
	"fmt"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"no rows", sql.ErrNoRows, http.StatusNotFound, "supplier order not found"},
		{"wrapped no rows", fmt.Errorf("scan: %w", sql.ErrNoRows), http.StatusNotFound, "supplier order not found"},
		{"duplicate email", &pq.Error{Code: "23505", Constraint: "employees_email_key"}, http.StatusConflict, "an employee with this email already exists"},
		{"duplicate payroll", &pq.Error{Code: "23505", Constraint: "payroll_employee_period_key"}, http.StatusConflict, "payroll already processed for this month"},
		{"missing reference", &pq.Error{Code: "23503"}, http.StatusBadRequest, "referenced record does not exist"},
		{"bad rating", &pq.Error{Code: "23514", Constraint: "customer_feedback_rating_check"}, http.StatusBadRequest, "validation failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *errors.AppError
			require.True(t, errors.As(Translate(tt.err, "supplier order"), &appErr))
			assert.Equal(t, tt.status, appErr.StatusCode)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}

	t.Run("other errors pass through", func(t *testing.T) {
		err := fmt.Errorf("connection reset")
		assert.Same(t, err, Translate(err, "product"))
		assert.NoError(t, Translate(nil, "product"))
	})
}
