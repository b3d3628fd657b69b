package auth

import (
	"context"
	"time"
)

// GateState is a state of the per-request access gate machine.
type GateState string

const (
	StateUnauthenticated        GateState = "unauthenticated"
	StateTokenPresentUnverified GateState = "token_present_unverified"
	StateAuthorized             GateState = "authorized"
	StateRejected               GateState = "rejected"
)

// GateReason says why the gate ended where it did.
type GateReason string

const (
	ReasonPublic               GateReason = "public"
	ReasonAnonymousAuthPage    GateReason = "anonymous_auth_page"
	ReasonMissingToken         GateReason = "missing_token"
	ReasonInvalidToken         GateReason = "invalid_token"
	ReasonRevokedToken         GateReason = "revoked_token"
	ReasonRevocationUnknown    GateReason = "revocation_unavailable"
	ReasonRoleMismatch         GateReason = "role_mismatch"
	ReasonAlreadyAuthenticated GateReason = "already_authenticated"
	ReasonRoleAuthorized       GateReason = "authorized"
)

// RevocationChecker reports whether a token id has been revoked.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Decision is the terminal outcome of the gate for one request. An empty
// Redirect lets the request through.
type Decision struct {
	State      GateState
	Reason     GateReason
	Redirect   string
	ClearToken bool
	Principal  *Principal
}

// Allowed reports whether the request may reach its handler.
func (d Decision) Allowed() bool {
	return d.Redirect == ""
}

// AccessGate decides, before any handler runs, whether a navigation may
// reach a role-scoped area. It keeps no state between requests.
type AccessGate struct {
	tokens      *TokenManager
	revocations RevocationChecker
	policy      *AreaPolicy
}

// NewAccessGate wires the gate. revocations may be nil.
func NewAccessGate(tokens *TokenManager, revocations RevocationChecker, policy *AreaPolicy) *AccessGate {
	if policy == nil {
		policy = DefaultAreaPolicy()
	}
	return &AccessGate{tokens: tokens, revocations: revocations, policy: policy}
}

// Policy exposes the area mapping.
func (g *AccessGate) Policy() *AreaPolicy {
	return g.policy
}

// Evaluate runs the gate for a request to path carrying token (possibly empty).
func (g *AccessGate) Evaluate(ctx context.Context, path, token string) Decision {
	area, protected := g.policy.Match(path)
	authPage := g.policy.IsAuthPage(path)
	if !protected && !authPage {
		return Decision{State: StateUnauthenticated, Reason: ReasonPublic}
	}

	if token == "" {
		if protected {
			return reject(ReasonMissingToken, false)
		}
		return Decision{State: StateUnauthenticated, Reason: ReasonAnonymousAuthPage}
	}

	// StateTokenPresentUnverified
	claims, err := g.tokens.ParseToken(token)
	if err != nil {
		return reject(ReasonInvalidToken, true)
	}

	if g.revocations != nil {
		revoked, err := g.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			// Auth pages stay reachable while the store is down.
			if authPage {
				return Decision{State: StateUnauthenticated, Reason: ReasonAnonymousAuthPage}
			}
			return reject(ReasonRevocationUnknown, false)
		}
		if revoked {
			return reject(ReasonRevokedToken, true)
		}
	}

	if protected && claims.Role != area.Role {
		return reject(ReasonRoleMismatch, false)
	}

	principal := principalFromClaims(claims)
	if authPage {
		dashboard, ok := g.policy.DashboardFor(claims.Role)
		if !ok {
			return Decision{State: StateUnauthenticated, Reason: ReasonAnonymousAuthPage}
		}
		return Decision{
			State:     StateAuthorized,
			Reason:    ReasonAlreadyAuthenticated,
			Redirect:  dashboard,
			Principal: principal,
		}
	}

	return Decision{State: StateAuthorized, Reason: ReasonRoleAuthorized, Principal: principal}
}

func reject(reason GateReason, clearToken bool) Decision {
	return Decision{
		State:      StateRejected,
		Reason:     reason,
		Redirect:   LoginPath,
		ClearToken: clearToken,
	}
}

func principalFromClaims(claims *Claims) *Principal {
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Principal{
		SubjectID: claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenID:   claims.ID,
		ExpiresAt: expiresAt,
	}
}
