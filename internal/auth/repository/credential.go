package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/retailhub/backoffice/pkg/database"
	"github.com/retailhub/backoffice/pkg/errors"
)

// Credential is the login view of an employee
type Credential struct {
	EmployeeID   int64  `db:"employee_id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Role         string `db:"role"`
	DepartmentID *int64 `db:"department_id"`
	Status       string `db:"status"`
	PasswordHash string `db:"password_hash"`
}

// FullName returns first and last name
func (c *Credential) FullName() string {
	return c.FirstName + " " + c.LastName
}

// CredentialRepository reads employee credentials
type CredentialRepository struct {
	db *database.DB
}

// NewCredentialRepository creates a new credential repository
func NewCredentialRepository(db *database.DB) *CredentialRepository {
	return &CredentialRepository{db: db}
}

// GetByEmployeeID loads the credential of one employee
func (r *CredentialRepository) GetByEmployeeID(ctx context.Context, employeeID int64) (*Credential, error) {
	var c Credential
	query := `
		SELECT employee_id, first_name, last_name, role, department_id, status, password_hash
		FROM employees
		WHERE employee_id = $1
	`

	if err := r.db.GetContext(ctx, &c, query, employeeID); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("employee")
		}
		return nil, err
	}

	return &c, nil
}

// RevocationRepository stores logged-out token IDs until they expire
type RevocationRepository struct {
	db *database.DB
}

// NewRevocationRepository creates a new revocation repository
func NewRevocationRepository(db *database.DB) *RevocationRepository {
	return &RevocationRepository{db: db}
}

// Revoke records a token ID as revoked
func (r *RevocationRepository) Revoke(ctx context.Context, tokenID string, employeeID int64, expiresAt time.Time) error {
	query := `
		INSERT INTO revoked_tokens (token_id, employee_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, tokenID, employeeID, expiresAt)
	return err
}

// IsRevoked reports whether the token ID was revoked
func (r *RevocationRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	var revoked bool
	query := `SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE token_id = $1)`
	if err := r.db.GetContext(ctx, &revoked, query, tokenID); err != nil {
		return false, err
	}
	return revoked, nil
}

// DeleteExpired removes revocations whose tokens have expired anyway
func (r *RevocationRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
