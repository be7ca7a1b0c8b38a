package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicdesk/grievance-service/internal/domain"
	"github.com/civicdesk/grievance-service/pkg/errorutil"
)

// RequireAdmin ensures the principal is the administrator.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return errorutil.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeAdmin {
			return errorutil.NewForbidden("admin access required")
		}
		return c.Next()
	}
}
