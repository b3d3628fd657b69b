package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gram-panchayat/panchayat-service/internal/api/dto"
	"github.com/gram-panchayat/panchayat-service/internal/observability"
	"github.com/gram-panchayat/panchayat-service/internal/service"
	apperrors "github.com/gram-panchayat/panchayat-service/pkg/util"
)

// AdminHandler exposes administrator-only account provisioning.
type AdminHandler struct {
	auth    *service.AuthService
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, logger *zap.Logger, metrics *observability.Metrics) *AdminHandler {
	return &AdminHandler{auth: authService, logger: logger, metrics: metrics}
}

// CreateMonitor handles POST /api/admin/monitors.
func (h *AdminHandler) CreateMonitor(c *fiber.Ctx) error {
	var req dto.CreateMonitorRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFailure(c, h.logger, h.metrics, apperrors.NewValidationError("Invalid request body", nil))
	}

	identity, err := h.auth.CreateMonitor(c.UserContext(), service.CreateMonitorInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return respondFailure(c, h.logger, h.metrics, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Code:    dto.CodeSuccess,
		Message: "Monitor created",
		Data:    dto.NewAuthUser(identity),
	})
}
