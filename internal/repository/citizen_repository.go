package repository

import (
	"context"

	"github.com/gram-panchayat/panchayat-service/internal/domain"
)

// CitizenRepository provides access to the citizen/employee account class.
type CitizenRepository interface {
	// Create inserts the citizen and, when employeeRole is set, its employee
	// association in one transaction.
	Create(ctx context.Context, citizen *domain.Citizen, employeeRole *string) error
	GetByEmail(ctx context.Context, email string) (*domain.Citizen, error)
}

type citizenRepository struct {
	db DBTX
}

// NewCitizenRepository returns a Postgres-backed implementation.
func NewCitizenRepository(db DBTX) CitizenRepository {
	return &citizenRepository{db: db}
}

const citizenColumns = `
        c.citizen_id, c.name, c.email, c.password_hash, c.gender, c.dob,
        c.household_id, c.educational_qualification, e.role, c.created_at`

func (r *citizenRepository) Create(ctx context.Context, citizen *domain.Citizen, employeeRole *string) error {
	const insertCitizen = `
        INSERT INTO citizens (name, email, password_hash, gender, dob, household_id, educational_qualification)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING citizen_id, created_at`
	const insertEmployee = `
        INSERT INTO panchayat_employees (citizen_id, role)
        VALUES ($1, $2)`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}

	if err := tx.QueryRow(ctx, insertCitizen,
		citizen.Name,
		citizen.Email,
		citizen.PasswordHash,
		citizen.Gender,
		citizen.DOB,
		citizen.HouseholdID,
		citizen.EducationalQualification,
	).Scan(&citizen.ID, &citizen.CreatedAt); err != nil {
		_ = tx.Rollback(ctx)
		return mapWriteError(err)
	}

	if employeeRole != nil {
		if _, err := tx.Exec(ctx, insertEmployee, citizen.ID, *employeeRole); err != nil {
			_ = tx.Rollback(ctx)
			return mapWriteError(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return mapWriteError(err)
	}
	citizen.EmployeeRole = employeeRole
	return nil
}

func (r *citizenRepository) GetByEmail(ctx context.Context, email string) (*domain.Citizen, error) {
	query := `
        SELECT` + citizenColumns + `
        FROM citizens c
        LEFT JOIN panchayat_employees e ON e.citizen_id = c.citizen_id
        WHERE c.email=$1`
	return r.scanOne(ctx, query, email)
}

func (r *citizenRepository) scanOne(ctx context.Context, query string, arg any) (*domain.Citizen, error) {
	var citizen domain.Citizen
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&citizen.ID,
		&citizen.Name,
		&citizen.Email,
		&citizen.PasswordHash,
		&citizen.Gender,
		&citizen.DOB,
		&citizen.HouseholdID,
		&citizen.EducationalQualification,
		&citizen.EmployeeRole,
		&citizen.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &citizen, nil
}
