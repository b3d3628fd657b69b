package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gram-panchayat/panchayat-service/internal/api/dto"
	"github.com/gram-panchayat/panchayat-service/internal/auth"
	"github.com/gram-panchayat/panchayat-service/internal/observability"
	"github.com/gram-panchayat/panchayat-service/internal/service"
	apperrors "github.com/gram-panchayat/panchayat-service/pkg/util"
)

// AuthHandler exposes login, signup and session endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	cookie  auth.CookieSettings
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookie auth.CookieSettings, logger *zap.Logger, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{auth: authService, cookie: cookie, logger: logger, metrics: metrics}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFailure(c, h.logger, h.metrics, apperrors.NewValidationError("Invalid request body", nil))
	}

	result, err := h.auth.Login(c.UserContext(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		UserType: req.UserType,
	})
	if err != nil {
		return respondFailure(c, h.logger, h.metrics, err)
	}

	h.cookie.SetTokenCookie(c, result.Token, result.ExpiresAt)
	return c.JSON(dto.AuthResponse{
		Code:    dto.CodeSuccess,
		Message: "Login successful",
		Data:    dto.NewAuthUser(result.Identity),
		Token:   result.Token,
	})
}

// Signup handles POST /api/auth/signup. No session is started.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondFailure(c, h.logger, h.metrics, apperrors.NewValidationError("Invalid request body", nil))
	}

	identity, err := h.auth.Signup(c.UserContext(), service.SignupInput{
		Name:                     req.Name,
		Email:                    req.Email,
		Password:                 req.Password,
		Gender:                   req.Gender,
		DOB:                      req.DOB,
		HouseholdID:              req.HouseholdID,
		EducationalQualification: req.EducationalQualification,
		IsEmployee:               req.IsEmployee,
		Role:                     req.Role,
	})
	if err != nil {
		return respondFailure(c, h.logger, h.metrics, err)
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AuthResponse{
		Code:    dto.CodeSuccess,
		Message: "User registered successfully",
		Data:    dto.NewAuthUser(identity),
	})
}

// Logout handles POST /api/auth/logout. The cookie is cleared even when
// revocation fails.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	token := h.cookie.TokenFromRequest(c)
	h.cookie.ClearTokenCookie(c)

	if err := h.auth.Logout(c.UserContext(), token); err != nil {
		return respondFailure(c, h.logger, h.metrics, err)
	}
	return c.JSON(dto.AuthResponse{Code: dto.CodeSuccess, Message: "Logged out"})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return respondFailure(c, h.logger, h.metrics, apperrors.NewUnauthorized("missing session token"))
	}
	return c.JSON(dto.AuthResponse{
		Code:    dto.CodeSuccess,
		Message: "Authenticated",
		Data:    principalUser(principal),
	})
}

// LoginPage handles GET /login for clients that are not signed in.
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":      "login",
		"action":    "/api/auth/login",
		"userTypes": []string{"citizen", "employee", "monitor", "admin"},
	})
}

// SignupPage handles GET /signup for clients that are not signed in.
func (h *AuthHandler) SignupPage(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"page":   "signup",
		"action": "/api/auth/signup",
	})
}

func principalUser(p *auth.Principal) *dto.AuthUser {
	return &dto.AuthUser{ID: p.SubjectID, Email: p.Email, UserType: p.Role}
}

// respondFailure renders err as a failed AuthResponse. Internal details are
// logged, never returned.
func respondFailure(c *fiber.Ctx, logger *zap.Logger, metrics *observability.Metrics, err error) error {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.Path()), zap.Error(domainErr))
	}
	metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

	return c.Status(domainErr.HTTPStatus).JSON(dto.AuthResponse{
		Code:    dto.CodeFailure,
		Message: domainErr.Message,
		Errors:  domainErr.Details,
	})
}
