package auth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
	"github.com/gram-panchayat/panchayat-service/internal/observability"
	apperrors "github.com/gram-panchayat/panchayat-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller as asserted by its token.
type Principal struct {
	SubjectID int64
	Email     string
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// CookieSettings describes the session cookie.
type CookieSettings struct {
	Name   string
	Secure bool
}

// SetTokenCookie stores the session token on the client.
func (s CookieSettings) SetTokenCookie(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearTokenCookie deletes the session token from the client.
func (s CookieSettings) ClearTokenCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     s.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   s.Secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// TokenFromRequest returns the bearer token, falling back to the session cookie.
func (s CookieSettings) TokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(s.Name)
}

// AuthMiddleware authenticates API calls carrying a session token.
type AuthMiddleware struct {
	tokens      *TokenManager
	revocations RevocationChecker
	cookie      CookieSettings
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, revocations RevocationChecker, cookie CookieSettings) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, revocations: revocations, cookie: cookie}
}

// Handle enforces authentication for protected API routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := m.cookie.TokenFromRequest(c)
	if token == "" {
		return apperrors.NewUnauthorized("missing session token")
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if m.revocations != nil {
		revoked, err := m.revocations.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		if revoked {
			return apperrors.NewUnauthorized("invalid token")
		}
	}

	c.Locals(principalKey, principalFromClaims(claims))
	return c.Next()
}

// GateMiddleware applies the access gate to page navigations. Every
// rejection is a redirect; invalid tokens are also deleted from the client.
func GateMiddleware(gate *AccessGate, cookie CookieSettings, metrics *observability.Metrics, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := gate.Evaluate(c.UserContext(), c.Path(), c.Cookies(cookie.Name))
		metrics.RecordGateDecision(string(decision.Reason))

		if decision.ClearToken {
			cookie.ClearTokenCookie(c)
		}
		if !decision.Allowed() {
			if decision.Reason == ReasonRevocationUnknown {
				logger.Warn("revocation lookup failed; rejecting navigation", zap.String("path", c.Path()))
			}
			return c.Redirect(decision.Redirect, fiber.StatusFound)
		}
		if decision.Principal != nil {
			c.Locals(principalKey, decision.Principal)
		}
		return c.Next()
	}
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
