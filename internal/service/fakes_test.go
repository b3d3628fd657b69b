package service

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
	"github.com/gram-panchayat/panchayat-service/internal/repository"
)

type memoryCitizens struct {
	mu         sync.Mutex
	nextID     int64
	byEmail    map[string]*domain.Citizen
	households map[int64]bool
}

func newMemoryCitizens(households ...int64) *memoryCitizens {
	known := map[int64]bool{}
	for _, id := range households {
		known[id] = true
	}
	return &memoryCitizens{byEmail: map[string]*domain.Citizen{}, households: known}
}

func (m *memoryCitizens) Create(_ context.Context, citizen *domain.Citizen, employeeRole *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[citizen.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	if !m.households[citizen.HouseholdID] {
		return repository.ErrUnknownHousehold
	}
	m.nextID++
	citizen.ID = m.nextID
	citizen.CreatedAt = time.Now()
	citizen.EmployeeRole = employeeRole
	stored := *citizen
	m.byEmail[citizen.Email] = &stored
	return nil
}

func (m *memoryCitizens) GetByEmail(_ context.Context, email string) (*domain.Citizen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

type memoryMonitors struct {
	mu      sync.Mutex
	nextID  int64
	byEmail map[string]*domain.Monitor
}

func newMemoryMonitors() *memoryMonitors {
	return &memoryMonitors{byEmail: map[string]*domain.Monitor{}}
}

func (m *memoryMonitors) Create(_ context.Context, monitor *domain.Monitor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[monitor.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	m.nextID++
	monitor.ID = m.nextID
	stored := *monitor
	m.byEmail[monitor.Email] = &stored
	return nil
}

func (m *memoryMonitors) GetByEmail(_ context.Context, email string) (*domain.Monitor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mon, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	cp := *mon
	return &cp, nil
}

type memoryAdmins struct {
	byEmail map[string]*domain.Admin
}

func (m *memoryAdmins) Create(_ context.Context, admin *domain.Admin) error {
	if m.byEmail == nil {
		m.byEmail = map[string]*domain.Admin{}
	}
	admin.ID = int64(len(m.byEmail) + 1)
	m.byEmail[admin.Email] = admin
	return nil
}

func (m *memoryAdmins) GetByEmail(_ context.Context, email string) (*domain.Admin, error) {
	admin, ok := m.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return admin, nil
}

type mockCitizenRepo struct {
	mock.Mock
}

func (m *mockCitizenRepo) Create(ctx context.Context, citizen *domain.Citizen, employeeRole *string) error {
	args := m.Called(ctx, citizen, employeeRole)
	return args.Error(0)
}

func (m *mockCitizenRepo) GetByEmail(ctx context.Context, email string) (*domain.Citizen, error) {
	args := m.Called(ctx, email)
	citizen, _ := args.Get(0).(*domain.Citizen)
	return citizen, args.Error(1)
}
