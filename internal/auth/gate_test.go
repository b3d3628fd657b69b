package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

type stubRevocations struct {
	revoked map[string]bool
	err     error
}

func (s *stubRevocations) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.revoked[tokenID], nil
}

func issue(t *testing.T, tm *TokenManager, role domain.Role) string {
	t.Helper()
	token, _, err := tm.GenerateToken(domain.Identity{SubjectID: 7, Email: "u@x.com", Role: role})
	require.NoError(t, err)
	return token
}

func TestAccessGateTransitions(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager("secret", time.Hour, "panchayat")
	gate := NewAccessGate(tm, &stubRevocations{}, DefaultAreaPolicy())

	citizen := issue(t, tm, domain.RoleCitizen)
	employee := issue(t, tm, domain.RoleEmployee)
	monitor := issue(t, tm, domain.RoleMonitor)
	admin := issue(t, tm, domain.RoleAdmin)

	expired := issue(t, tm.WithClock(fixedClock(time.Now().Add(-2*time.Hour))), domain.RoleCitizen)
	foreign := issue(t, NewTokenManager("other", time.Hour, "panchayat"), domain.RoleCitizen)

	cases := []struct {
		name       string
		path       string
		token      string
		state      GateState
		reason     GateReason
		redirect   string
		clearToken bool
	}{
		{"public path without token", "/health/live", "", StateUnauthenticated, ReasonPublic, "", false},
		{"public path ignores bad token", "/api/auth/login", "garbage", StateUnauthenticated, ReasonPublic, "", false},
		{"protected without token", "/employee/dashboard", "", StateRejected, ReasonMissingToken, LoginPath, false},
		{"area root without token", "/monitor", "", StateRejected, ReasonMissingToken, LoginPath, false},
		{"login page without token", "/login", "", StateUnauthenticated, ReasonAnonymousAuthPage, "", false},
		{"signup page without token", "/signup", "", StateUnauthenticated, ReasonAnonymousAuthPage, "", false},
		{"malformed token", "/citizen/dashboard", "not-a-jwt", StateRejected, ReasonInvalidToken, LoginPath, true},
		{"expired token", "/citizen/dashboard", expired, StateRejected, ReasonInvalidToken, LoginPath, true},
		{"foreign signature", "/citizen/dashboard", foreign, StateRejected, ReasonInvalidToken, LoginPath, true},
		{"invalid token on login page", "/login", "not-a-jwt", StateRejected, ReasonInvalidToken, LoginPath, true},
		{"citizen token on employee area", "/employee/dashboard", citizen, StateRejected, ReasonRoleMismatch, LoginPath, false},
		{"employee token on citizen area", "/citizen/records", employee, StateRejected, ReasonRoleMismatch, LoginPath, false},
		{"citizen token on admin area", "/adminpanel", citizen, StateRejected, ReasonRoleMismatch, LoginPath, false},
		{"citizen authorized", "/citizen/dashboard", citizen, StateAuthorized, ReasonRoleAuthorized, "", false},
		{"employee authorized", "/employee/households/3", employee, StateAuthorized, ReasonRoleAuthorized, "", false},
		{"monitor authorized", "/monitor/dashboard", monitor, StateAuthorized, ReasonRoleAuthorized, "", false},
		{"admin authorized", "/adminpanel", admin, StateAuthorized, ReasonRoleAuthorized, "", false},
		{"authenticated citizen on login", "/login", citizen, StateAuthorized, ReasonAlreadyAuthenticated, "/citizen/dashboard", false},
		{"authenticated employee on signup", "/signup", employee, StateAuthorized, ReasonAlreadyAuthenticated, "/employee/dashboard", false},
		{"authenticated monitor on login", "/login", monitor, StateAuthorized, ReasonAlreadyAuthenticated, "/monitor/dashboard", false},
		{"authenticated admin on login", "/login", admin, StateAuthorized, ReasonAlreadyAuthenticated, "/adminpanel", false},
		{"prefix is segment bounded", "/citizenship", "", StateUnauthenticated, ReasonPublic, "", false},
		{"mixed case area without token", "/CITIZEN/dashboard", "", StateRejected, ReasonMissingToken, LoginPath, false},
		{"mixed case area with wrong role", "/Employee/dashboard", citizen, StateRejected, ReasonRoleMismatch, LoginPath, false},
		{"mixed case area with matching role", "/Employee/Dashboard", employee, StateAuthorized, ReasonRoleAuthorized, "", false},
		{"trailing slash on login page", "/login/", citizen, StateAuthorized, ReasonAlreadyAuthenticated, "/citizen/dashboard", false},
		{"mixed case signup page", "/SignUp", "", StateUnauthenticated, ReasonAnonymousAuthPage, "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := gate.Evaluate(ctx, tc.path, tc.token)
			assert.Equal(t, tc.state, d.State)
			assert.Equal(t, tc.reason, d.Reason)
			assert.Equal(t, tc.redirect, d.Redirect)
			assert.Equal(t, tc.clearToken, d.ClearToken)
		})
	}
}

func TestAccessGateAuthorizedPrincipal(t *testing.T) {
	tm := NewTokenManager("secret", time.Hour, "")
	gate := NewAccessGate(tm, nil, nil)
	token := issue(t, tm, domain.RoleEmployee)

	first := gate.Evaluate(context.Background(), "/employee/dashboard", token)
	second := gate.Evaluate(context.Background(), "/employee/dashboard", token)

	require.True(t, first.Allowed())
	require.NotNil(t, first.Principal)
	assert.Equal(t, int64(7), first.Principal.SubjectID)
	assert.Equal(t, domain.RoleEmployee, first.Principal.Role)
	assert.Equal(t, *first.Principal, *second.Principal)
}

func TestAccessGateRevocation(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager("secret", time.Hour, "")
	token := issue(t, tm, domain.RoleCitizen)
	claims, err := tm.ParseToken(token)
	require.NoError(t, err)

	revoked := NewAccessGate(tm, &stubRevocations{revoked: map[string]bool{claims.ID: true}}, nil)
	d := revoked.Evaluate(ctx, "/citizen/dashboard", token)
	assert.Equal(t, StateRejected, d.State)
	assert.Equal(t, ReasonRevokedToken, d.Reason)
	assert.True(t, d.ClearToken)

	unavailable := NewAccessGate(tm, &stubRevocations{err: errors.New("redis down")}, nil)
	d = unavailable.Evaluate(ctx, "/citizen/dashboard", token)
	assert.Equal(t, StateRejected, d.State)
	assert.Equal(t, ReasonRevocationUnknown, d.Reason)
	assert.False(t, d.ClearToken)
	assert.Equal(t, LoginPath, d.Redirect)
}

func TestAccessGateAuthPagesReachableWhileRevocationUnavailable(t *testing.T) {
	ctx := context.Background()
	tm := NewTokenManager("secret", time.Hour, "")
	token := issue(t, tm, domain.RoleCitizen)
	gate := NewAccessGate(tm, &stubRevocations{err: errors.New("redis down")}, nil)

	for _, path := range []string{LoginPath, SignupPath} {
		d := gate.Evaluate(ctx, path, token)
		assert.True(t, d.Allowed(), path)
		assert.Equal(t, StateUnauthenticated, d.State, path)
		assert.Equal(t, ReasonAnonymousAuthPage, d.Reason, path)
		assert.False(t, d.ClearToken, path)
		assert.Nil(t, d.Principal, path)
	}
}

func TestAreaPolicy(t *testing.T) {
	p := DefaultAreaPolicy()

	area, ok := p.Match("/employee/dashboard")
	require.True(t, ok)
	assert.Equal(t, domain.RoleEmployee, area.Role)

	_, ok = p.Match("/employees")
	assert.False(t, ok)

	area, ok = p.Match("/AdminPanel/")
	require.True(t, ok)
	assert.Equal(t, domain.RoleAdmin, area.Role)

	dash, ok := p.DashboardFor(domain.RoleMonitor)
	require.True(t, ok)
	assert.Equal(t, "/monitor/dashboard", dash)

	assert.True(t, p.IsAuthPage("/login"))
	assert.True(t, p.IsAuthPage("/LOGIN/"))
	assert.False(t, p.IsAuthPage("/"))
	assert.False(t, p.IsAuthPage("/login/extra"))
	assert.Len(t, p.Areas(), 4)
}
