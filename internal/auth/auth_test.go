package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/pkg/errorutil"
)

func TestAdminCredential(t *testing.T) {
	cred, err := NewAdminCredential("", "s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, cred.Enabled())
	assert.NoError(t, cred.Verify("s3cret"))
	assert.Error(t, cred.Verify("wrong"))

	hash, err := HashPassword("hashed-pass", bcrypt.MinCost)
	require.NoError(t, err)
	fromHash, err := NewAdminCredential(hash, "ignored", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NoError(t, fromHash.Verify("hashed-pass"))
	assert.Error(t, fromHash.Verify("ignored"))

	disabled, err := NewAdminCredential("", "", bcrypt.MinCost)
	require.NoError(t, err)
	assert.False(t, disabled.Enabled())
	assert.ErrorIs(t, disabled.Verify(""), ErrAdminDisabled)

	_, err = NewAdminCredential("not-a-hash", "", bcrypt.MinCost)
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	token, exp, err := tm.GenerateToken("admin", domain.SubjectTypeAdmin)
	require.NoError(t, err)
	assert.False(t, exp.IsZero())

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubjectTypeAdmin, claims.SubjectType)
	assert.Equal(t, "admin", claims.Subject)

	_, err = NewTokenManager("other", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestAdminMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := errorutil.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/admin", NewAuthMiddleware(tm).Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/admin", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	other, _, err := tm.GenerateToken("visitor", domain.SubjectType("VISITOR"))
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+other)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	token, _, err := tm.GenerateToken("admin", domain.SubjectTypeAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
