package repository

import (
	"context"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// AdminRepository handles persistence for administrators.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

type adminRepository struct {
	db DBTX
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(db DBTX) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	const query = `
        INSERT INTO admins (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING admin_id, created_at`

	err := r.db.QueryRow(ctx, query, admin.Name, admin.Email, admin.PasswordHash).
		Scan(&admin.ID, &admin.CreatedAt)
	return mapWriteError(err)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	const query = `
        SELECT admin_id, name, email, password_hash, created_at
        FROM admins WHERE email=$1`

	var admin domain.Admin
	if err := r.db.QueryRow(ctx, query, email).Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}
