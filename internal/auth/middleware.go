package auth

import (
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware runs the Filter for every inbound request.
type AuthMiddleware struct {
	filter *Filter
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(filter *Filter) *AuthMiddleware {
	return &AuthMiddleware{filter: filter}
}

// Handle binds a security context when the bearer token is valid and
// always continues; protected routes reject later via RequireAuthenticated.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	current, _ := SecurityContextFrom(c)

	decision := m.filter.Evaluate(c.UserContext(), Request{
		Path:          c.Path(),
		Authorization: c.Get(fiber.HeaderAuthorization),
	}, current)

	if decision.State == StateBound {
		Bind(c, decision.Context)
	}
	return c.Next()
}
