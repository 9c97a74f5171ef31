package database

import (
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/retailhub/backoffice/pkg/errors"
)

// MapPQError converts a PostgreSQL error to an AppError with meaningful messages.
// Returns nil if the error is not a pq.Error.
func MapPQError(err error) *errors.AppError {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil
	}

	switch pqErr.Code {
	// Check constraint violation
	case "23514":
		return mapCheckConstraint(pqErr)

	// Unique constraint violation
	case "23505":
		return errors.Conflict(formatConstraintMessage(pqErr))

	// Foreign key violation
	case "23503":
		return errors.BadRequest("referenced record does not exist")

	// Not null violation
	case "23502":
		col := pqErr.Column
		if col == "" {
			col = "required field"
		}
		return errors.Validation(map[string]string{
			col: "must not be empty",
		})

	default:
		return nil
	}
}

// Translate maps a driver error to an AppError: sql.ErrNoRows becomes
// NotFound(resource), constraint violations go through MapPQError and
// anything else is returned unchanged.
func Translate(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return errors.NotFound(resource)
	}
	if appErr := MapPQError(err); appErr != nil {
		return appErr
	}
	return err
}

func mapCheckConstraint(pqErr *pq.Error) *errors.AppError {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "status"):
		return errors.Validation(map[string]string{
			"status": "has an unsupported value",
		})
	case strings.Contains(constraint, "quantity"):
		return errors.Validation(map[string]string{
			"quantity": "must be positive",
		})
	case strings.Contains(constraint, "rating"):
		return errors.Validation(map[string]string{
			"rating": "must be between 1 and 5",
		})
	default:
		return errors.BadRequest("data validation failed: " + constraint)
	}
}

func formatConstraintMessage(pqErr *pq.Error) string {
	constraint := pqErr.Constraint

	switch {
	case strings.Contains(constraint, "employees_email"):
		return "an employee with this email already exists"
	case strings.Contains(constraint, "departments_name"):
		return "a department with this name already exists"
	case strings.Contains(constraint, "payroll"):
		return "payroll already processed for this month"
	case strings.Contains(constraint, "invoice"):
		return "invoice number already in use"
	default:
		return "a record with these values already exists"
	}
}
