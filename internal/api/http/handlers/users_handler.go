package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/auth"
)

// AccessGranted is the body returned by the protected probe.
const AccessGranted = "Access Granted"

// UsersHandler serves the protected user resources.
type UsersHandler struct {
	logger *zap.Logger
}

// NewUsersHandler constructs handler.
func NewUsersHandler(logger *zap.Logger) *UsersHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UsersHandler{logger: logger}
}

// Probe handles GET /api/users. Reaching it proves the caller was authenticated.
func (h *UsersHandler) Probe(c *fiber.Ctx) error {
	if sc, ok := auth.SecurityContextFrom(c); ok {
		h.logger.Debug("access granted", zap.String("principal", sc.Identifier()))
	}
	return c.SendString(AccessGranted)
}
