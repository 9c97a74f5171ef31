package service

import (
	"context"
	"time"

	"github.com/retailhub/backoffice/internal/auth/jwt"
	"github.com/retailhub/backoffice/internal/auth/repository"
	"github.com/retailhub/backoffice/pkg/actor"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/retailhub/backoffice/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// StatusActive is the only employee status allowed to log in
const StatusActive = "Active"

// AuthService handles authentication logic
type AuthService struct {
	credentials *repository.CredentialRepository
	revocations *repository.RevocationRepository
	jwtManager  *jwt.Manager
	logger      *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	credentials *repository.CredentialRepository,
	revocations *repository.RevocationRepository,
	jwtManager *jwt.Manager,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		credentials: credentials,
		revocations: revocations,
		jwtManager:  jwtManager,
		logger:      log,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	EmployeeID int64  `json:"employee_id" validate:"required,gt=0"`
	Password   string `json:"password" validate:"required"`
}

// LoginResult is returned on successful login
type LoginResult struct {
	Token     string        `json:"-"`
	ExpiresAt time.Time     `json:"expires_at"`
	Employee  *EmployeeInfo `json:"employee"`
}

// EmployeeInfo is the authenticated identity returned to clients
type EmployeeInfo struct {
	EmployeeID   int64  `json:"employee_id"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
}

// Login checks the employee's password and issues an access token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	cred, err := s.credentials.GetByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.InvalidCredentials()
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Info().Int64("employee_id", req.EmployeeID).Msg("login rejected: wrong password")
		return nil, errors.InvalidCredentials()
	}

	if cred.Status != StatusActive {
		return nil, errors.Forbidden("employee account is not active")
	}

	token, claims, err := s.jwtManager.Generate(&jwt.EmployeeInfo{
		ID:           cred.EmployeeID,
		Name:         cred.FullName(),
		Role:         cred.Role,
		DepartmentID: cred.DepartmentID,
	})
	if err != nil {
		return nil, errors.Internal("failed to generate token")
	}

	s.logger.Info().
		Int64("employee_id", cred.EmployeeID).
		Str("role", cred.Role).
		Msg("employee logged in")

	return &LoginResult{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Employee: &EmployeeInfo{
			EmployeeID:   cred.EmployeeID,
			Name:         cred.FullName(),
			Role:         cred.Role,
			DepartmentID: cred.DepartmentID,
		},
	}, nil
}

// Logout revokes the token. Invalid or expired tokens need no revocation.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.EmployeeID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error().Err(err).Int64("employee_id", claims.EmployeeID).Msg("failed to revoke token")
		return errors.Internal("failed to log out")
	}

	s.logger.Info().Int64("employee_id", claims.EmployeeID).Msg("employee logged out")
	return nil
}

// Authenticate resolves a token to the calling employee
func (s *AuthService) Authenticate(ctx context.Context, token string) (*actor.Actor, error) {
	if token == "" {
		return nil, errors.Unauthorized("authentication required")
	}

	claims, err := s.jwtManager.Validate(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check token revocation")
		return nil, errors.Internal("failed to verify token")
	}
	if revoked {
		return nil, errors.Unauthorized("token has been revoked")
	}

	return &actor.Actor{
		EmployeeID:   claims.EmployeeID,
		Name:         claims.Name,
		Role:         claims.Role,
		DepartmentID: claims.DepartmentID,
		TokenID:      claims.ID,
	}, nil
}

// PurgeExpiredRevocations drops revocation rows of tokens that expired
func (s *AuthService) PurgeExpiredRevocations(ctx context.Context) error {
	n, err := s.revocations.DeleteExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		s.logger.Info().Int64("removed", n).Msg("purged expired token revocations")
	}
	return nil
}

// CookieMaxAge returns the cookie lifetime matching the token expiry
func (s *AuthService) CookieMaxAge() time.Duration {
	return s.jwtManager.Expiry()
}
