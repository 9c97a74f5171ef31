package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/retailhub/backoffice/pkg/config"
	"github.com/retailhub/backoffice/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.JWTConfig {
	return &config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: 8 * time.Hour,
		Issuer:       "backoffice",
		CookieName:   "auth_token",
	}
}

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager(testConfig())
	dept := int64(3)

	token, claims, err := m.Generate(&EmployeeInfo{ID: 12, Name: "Asha Patel", Role: "HR Manager", DepartmentID: &dept})
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID)

	got, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.EmployeeID)
	assert.Equal(t, "HR Manager", got.Role)
	assert.Equal(t, claims.ID, got.ID)
	require.NotNil(t, got.DepartmentID)
	assert.Equal(t, int64(3), *got.DepartmentID)
	assert.WithinDuration(t, time.Now().Add(8*time.Hour), got.ExpiresAt.Time, time.Minute)
}

func TestValidate_Expired(t *testing.T) {
	m := NewManager(testConfig())
	m.now = func() time.Time { return time.Now().Add(-9 * time.Hour) }

	token, _, err := m.Generate(&EmployeeInfo{ID: 1, Role: "Cashier"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
}

func TestValidate_WrongSecret(t *testing.T) {
	token, _, err := NewManager(testConfig()).Generate(&EmployeeInfo{ID: 1, Role: "Cashier"})
	require.NoError(t, err)

	other := testConfig()
	other.Secret = "another-secret"
	_, err = NewManager(other).Validate(token)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))

	_, err = NewManager(testConfig()).Validate("not-a-token")
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}

func TestFromRequest(t *testing.T) {
	t.Run("cookie wins over header", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Bearer header-token")
		r.AddCookie(&http.Cookie{Name: "auth_token", Value: "cookie-token"})
		assert.Equal(t, "cookie-token", FromRequest(r, "auth_token"))
	})

	t.Run("bearer fallback", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "bearer header-token")
		assert.Equal(t, "header-token", FromRequest(r, "auth_token"))
	})

	t.Run("nothing", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set("Authorization", "Basic abc")
		assert.Empty(t, FromRequest(r, "auth_token"))
	})
}
