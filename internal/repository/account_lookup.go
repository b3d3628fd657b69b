package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// ErrAccountNotFound is returned when no account with the email exists in the looked-up class.
var ErrAccountNotFound = errors.New("account not found")

// AccountLookup finds an account by email within one account class.
type AccountLookup interface {
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
}

// AccountDirectory routes a claimed role to the lookup for its account class.
type AccountDirectory struct {
	lookups map[domain.AccountClass]AccountLookup
}

// NewAccountDirectory wires one lookup variant per account class.
func NewAccountDirectory(citizens CitizenRepository, monitors MonitorRepository, admins AdminRepository) *AccountDirectory {
	return &AccountDirectory{
		lookups: map[domain.AccountClass]AccountLookup{
			domain.AccountClassCitizen: citizenLookup{repo: citizens},
			domain.AccountClassMonitor: monitorLookup{repo: monitors},
			domain.AccountClassAdmin:   adminLookup{repo: admins},
		},
	}
}

// For returns the lookup serving the class of role.
func (d *AccountDirectory) For(role domain.Role) (AccountLookup, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q", role)
	}
	lookup, ok := d.lookups[role.Class()]
	if !ok || lookup == nil {
		return nil, fmt.Errorf("no account store for class %q", role.Class())
	}
	return lookup, nil
}

type citizenLookup struct {
	repo CitizenRepository
}

func (l citizenLookup) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	citizen, err := l.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err)
	}
	return citizen.Account(), nil
}

type monitorLookup struct {
	repo MonitorRepository
}

func (l monitorLookup) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	monitor, err := l.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err)
	}
	return monitor.Account(), nil
}

type adminLookup struct {
	repo AdminRepository
}

func (l adminLookup) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	admin, err := l.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, notFound(err)
	}
	return admin.Account(), nil
}

func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAccountNotFound
	}
	return err
}
