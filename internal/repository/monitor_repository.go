package repository

import (
	"context"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// MonitorRepository handles persistence for government monitors.
type MonitorRepository interface {
	Create(ctx context.Context, monitor *domain.Monitor) error
	GetByEmail(ctx context.Context, email string) (*domain.Monitor, error)
}

type monitorRepository struct {
	db DBTX
}

// NewMonitorRepository instantiates the repository.
func NewMonitorRepository(db DBTX) MonitorRepository {
	return &monitorRepository{db: db}
}

func (r *monitorRepository) Create(ctx context.Context, monitor *domain.Monitor) error {
	const query = `
        INSERT INTO government_monitors (name, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING monitor_id, created_at`

	err := r.db.QueryRow(ctx, query, monitor.Name, monitor.Email, monitor.PasswordHash).
		Scan(&monitor.ID, &monitor.CreatedAt)
	return mapWriteError(err)
}

func (r *monitorRepository) GetByEmail(ctx context.Context, email string) (*domain.Monitor, error) {
	const query = `
        SELECT monitor_id, name, email, password_hash, created_at
        FROM government_monitors WHERE email=$1`
	return r.scanOne(ctx, query, email)
}

func (r *monitorRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Monitor, error) {
	var monitor domain.Monitor
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&monitor.ID,
		&monitor.Name,
		&monitor.Email,
		&monitor.PasswordHash,
		&monitor.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &monitor, nil
}
