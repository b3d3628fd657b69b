package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
	apperrors "github.com/gram-panchayat/panchayat-service/pkg/util"
)

const (
	LoginPath  = "/login"
	SignupPath = "/signup"
)

// Area is a role-scoped part of the application.
type Area struct {
	Prefix    string
	Role      domain.Role
	Dashboard string
}

// AreaPolicy is the static role to area mapping consulted by the access gate.
type AreaPolicy struct {
	areas []Area
}

// DefaultAreaPolicy returns the dashboards of the four roles.
func DefaultAreaPolicy() *AreaPolicy {
	return NewAreaPolicy(
		Area{Prefix: "/employee", Role: domain.RoleEmployee, Dashboard: "/employee/dashboard"},
		Area{Prefix: "/citizen", Role: domain.RoleCitizen, Dashboard: "/citizen/dashboard"},
		Area{Prefix: "/monitor", Role: domain.RoleMonitor, Dashboard: "/monitor/dashboard"},
		Area{Prefix: "/adminpanel", Role: domain.RoleAdmin, Dashboard: "/adminpanel"},
	)
}

// NewAreaPolicy builds a policy from explicit areas.
func NewAreaPolicy(areas ...Area) *AreaPolicy {
	return &AreaPolicy{areas: append([]Area(nil), areas...)}
}

// Match returns the area owning path. A prefix owns itself and everything below it.
// Paths compare case-insensitively, the same way the router matches them.
func (p *AreaPolicy) Match(path string) (Area, bool) {
	path = normalizePath(path)
	for _, area := range p.areas {
		if path == area.Prefix || strings.HasPrefix(path, area.Prefix+"/") {
			return area, true
		}
	}
	return Area{}, false
}

// IsAuthPage reports whether path is the login or signup page.
func (p *AreaPolicy) IsAuthPage(path string) bool {
	path = normalizePath(path)
	return path == LoginPath || path == SignupPath
}

func normalizePath(path string) string {
	path = strings.ToLower(path)
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// DashboardFor returns the landing page of role.
func (p *AreaPolicy) DashboardFor(role domain.Role) (string, bool) {
	for _, area := range p.areas {
		if area.Role == role {
			return area.Dashboard, true
		}
	}
	return "", false
}

// Areas lists the configured areas.
func (p *AreaPolicy) Areas() []Area {
	return append([]Area(nil), p.areas...)
}

// RequireRole ensures the bearer principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("missing session token")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden("insufficient role")
		}
		return c.Next()
	}
}

// RequireAnyRole ensures the caller is authenticated.
func RequireAnyRole() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("missing session token")
		}
		return c.Next()
	}
}
