package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gram-panchayat/panchayat-service/internal/auth"
	apperrors "github.com/gram-panchayat/panchayat-service/pkg/util"
)

// DashboardHandler serves the role areas. It only echoes the identity the
// access gate established.
type DashboardHandler struct{}

// NewDashboardHandler constructs handler.
func NewDashboardHandler() *DashboardHandler {
	return &DashboardHandler{}
}

// Show handles GET on a role dashboard.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("missing session token")
	}
	return c.JSON(fiber.Map{
		"area": string(principal.Role),
		"user": principalUser(principal),
	})
}
