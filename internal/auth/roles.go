package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/domain"
	apperrors "github.com/spec-kit/auth-service/pkg/util/errorutil"
)

// RequireAuthenticated rejects requests without a bound security context.
// status is the configured rejection code (401 or 403).
func RequireAuthenticated(status int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := SecurityContextFrom(c); !ok {
			return apperrors.NewUnauthenticated(status)
		}
		return c.Next()
	}
}

// RequireRole ensures the bound principal has one of the allowed roles.
func RequireRole(status int, allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sc, ok := SecurityContextFrom(c)
		if !ok {
			return apperrors.NewUnauthenticated(status)
		}
		if len(allowed) == 0 || sc.HasRole(allowed...) {
			return c.Next()
		}
		return apperrors.NewForbidden("insufficient role")
	}
}
