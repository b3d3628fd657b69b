package repository

import (
	"context"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// HouseholdRepository creates the households citizens belong to.
type HouseholdRepository interface {
	Create(ctx context.Context, household *domain.Household) error
	GetByAddress(ctx context.Context, address string) (*domain.Household, error)
}

type householdRepository struct {
	db DBTX
}

// NewHouseholdRepository instantiates the repository.
func NewHouseholdRepository(db DBTX) HouseholdRepository {
	return &householdRepository{db: db}
}

func (r *householdRepository) Create(ctx context.Context, household *domain.Household) error {
	const query = `
        INSERT INTO households (address, income)
        VALUES ($1, $2)
        RETURNING household_id, created_at`

	return r.db.QueryRow(ctx, query, household.Address, household.Income).
		Scan(&household.ID, &household.CreatedAt)
}

// GetByAddress returns the oldest household registered at address.
func (r *householdRepository) GetByAddress(ctx context.Context, address string) (*domain.Household, error) {
	const query = `
        SELECT household_id, address, income, created_at
        FROM households WHERE address=$1
        ORDER BY household_id
        LIMIT 1`

	var household domain.Household
	if err := r.db.QueryRow(ctx, query, address).Scan(
		&household.ID,
		&household.Address,
		&household.Income,
		&household.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &household, nil
}
