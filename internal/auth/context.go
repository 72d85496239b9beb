package auth

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/auth-service/internal/domain"
)

const securityContextKey = "auth_security_context"

type securityContextCtxKey struct{}

// SecurityContext binds an authenticated principal to a single request.
type SecurityContext struct {
	Principal       *domain.User
	Role            domain.Role
	AuthenticatedAt time.Time
}

// Identifier returns the principal's identifier.
func (s *SecurityContext) Identifier() string {
	if s == nil || s.Principal == nil {
		return ""
	}
	return s.Principal.Identifier()
}

// HasRole reports whether the bound role is one of roles.
func (s *SecurityContext) HasRole(roles ...domain.Role) bool {
	if s == nil {
		return false
	}
	for _, role := range roles {
		if s.Role == role {
			return true
		}
	}
	return false
}

// Bind attaches sc to the fiber request and to its user context.
func Bind(c *fiber.Ctx, sc *SecurityContext) {
	c.Locals(securityContextKey, sc)
	c.SetUserContext(WithSecurityContext(c.UserContext(), sc))
}

// SecurityContextFrom retrieves the bound context, if any.
func SecurityContextFrom(c *fiber.Ctx) (*SecurityContext, bool) {
	sc, ok := c.Locals(securityContextKey).(*SecurityContext)
	return sc, ok && sc != nil
}

// WithSecurityContext returns a copy of ctx carrying sc.
func WithSecurityContext(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextCtxKey{}, sc)
}

// FromContext retrieves the security context from a standard context.
func FromContext(ctx context.Context) (*SecurityContext, bool) {
	sc, ok := ctx.Value(securityContextCtxKey{}).(*SecurityContext)
	return sc, ok && sc != nil
}
