package main

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/gram-panchayat/panchayat-service/internal/auth"
	"github.com/gram-panchayat/panchayat-service/internal/domain"
	"github.com/gram-panchayat/panchayat-service/internal/repository"
)

type fakeHouseholds struct{ created []*domain.Household }

func (f *fakeHouseholds) Create(_ context.Context, h *domain.Household) error {
	f.created = append(f.created, h)
	h.ID = int64(len(f.created))
	return nil
}

func (f *fakeHouseholds) GetByAddress(_ context.Context, address string) (*domain.Household, error) {
	for _, h := range f.created {
		if h.Address == address {
			return h, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeCitizens struct {
	byEmail map[string]*domain.Citizen
	err     error
}

func (f *fakeCitizens) Create(_ context.Context, c *domain.Citizen, role *string) error {
	if _, ok := f.byEmail[c.Email]; ok {
		return repository.ErrDuplicateEmail
	}
	c.EmployeeRole = role
	f.byEmail[c.Email] = c
	return nil
}

func (f *fakeCitizens) GetByEmail(_ context.Context, email string) (*domain.Citizen, error) {
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.byEmail[email]; ok {
		return c, nil
	}
	return nil, pgx.ErrNoRows
}

type fakeMonitors struct{ emails []string }

func (f *fakeMonitors) Create(_ context.Context, m *domain.Monitor) error {
	for _, e := range f.emails {
		if e == m.Email {
			return repository.ErrDuplicateEmail
		}
	}
	f.emails = append(f.emails, m.Email)
	return nil
}

func (f *fakeMonitors) GetByEmail(context.Context, string) (*domain.Monitor, error) {
	return nil, pgx.ErrNoRows
}

type fakeAdmins struct{ emails []string }

func (f *fakeAdmins) Create(_ context.Context, a *domain.Admin) error {
	f.emails = append(f.emails, a.Email)
	return nil
}

func (f *fakeAdmins) GetByEmail(context.Context, string) (*domain.Admin, error) {
	return nil, pgx.ErrNoRows
}

func TestSeedDemoData(t *testing.T) {
	households := &fakeHouseholds{}
	citizens := &fakeCitizens{byEmail: map[string]*domain.Citizen{}}
	monitors := &fakeMonitors{emails: []string{"monitor@gov.in"}}
	admins := &fakeAdmins{}

	repos := seedRepos{households: households, citizens: citizens, monitors: monitors, admins: admins}
	require.NoError(t, seedDemoData(context.Background(), repos, bcrypt.MinCost, zap.NewNop()))

	assert.Len(t, households.created, 2)
	assert.Equal(t, "123 Rural Street, Village 1", households.created[0].Address)
	require.Len(t, citizens.byEmail, 3)

	bob := citizens.byEmail["bob@example.com"]
	require.NotNil(t, bob)
	assert.Equal(t, domain.RoleEmployee, bob.Role())
	assert.Equal(t, "Health Officer", *bob.EmployeeRole)
	assert.NoError(t, auth.ComparePassword(bob.PasswordHash, demoPassword))
	assert.Equal(t, int64(2), citizens.byEmail["jane@example.com"].HouseholdID)

	assert.Equal(t, []string{"monitor@gov.in"}, monitors.emails)
	assert.Equal(t, []string{"admin@gov.in"}, admins.emails)

	require.NoError(t, seedDemoData(context.Background(), repos, bcrypt.MinCost, zap.NewNop()))
	assert.Len(t, households.created, 2)
}

func TestSeedDemoDataResumesAfterPartialRun(t *testing.T) {
	households := &fakeHouseholds{}
	existing := []*domain.Household{
		{Address: "123 Rural Street, Village 1", Income: 25000},
		{Address: "456 Farm Road, Village 2", Income: 35000},
	}
	for _, h := range existing {
		require.NoError(t, households.Create(context.Background(), h))
	}
	citizens := &fakeCitizens{byEmail: map[string]*domain.Citizen{}}

	repos := seedRepos{households: households, citizens: citizens, monitors: &fakeMonitors{}, admins: &fakeAdmins{}}
	require.NoError(t, seedDemoData(context.Background(), repos, bcrypt.MinCost, zap.NewNop()))

	assert.Len(t, households.created, 2)
	require.Len(t, citizens.byEmail, 3)
	assert.Equal(t, int64(1), citizens.byEmail["john@example.com"].HouseholdID)
	assert.Equal(t, int64(2), citizens.byEmail["jane@example.com"].HouseholdID)
}

func TestSeedDemoDataStopsOnLookupFailure(t *testing.T) {
	households := &fakeHouseholds{}
	citizens := &fakeCitizens{byEmail: map[string]*domain.Citizen{}, err: errors.New("connection refused")}

	repos := seedRepos{households: households, citizens: citizens, monitors: &fakeMonitors{}, admins: &fakeAdmins{}}
	err := seedDemoData(context.Background(), repos, bcrypt.MinCost, zap.NewNop())

	assert.EqualError(t, err, "connection refused")
	assert.Empty(t, households.created)
	assert.Empty(t, citizens.byEmail)
}
