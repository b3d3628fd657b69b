package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/gram-panchayat/panchayat-service/internal/auth"
	"github.com/gram-panchayat/panchayat-service/internal/config"
	"github.com/gram-panchayat/panchayat-service/internal/domain"
	"github.com/gram-panchayat/panchayat-service/internal/observability"
	"github.com/gram-panchayat/panchayat-service/internal/persistence"
	"github.com/gram-panchayat/panchayat-service/internal/repository"
)

const demoPassword = "password123"

type seedRepos struct {
	households repository.HouseholdRepository
	citizens   repository.CitizenRepository
	monitors   repository.MonitorRepository
	admins     repository.AdminRepository
}

type demoCitizen struct {
	name          string
	email         string
	gender        string
	dob           string
	household     int
	qualification string
	position      *string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	pool := pg.PoolHandle()
	repos := seedRepos{
		households: repository.NewHouseholdRepository(pool),
		citizens:   repository.NewCitizenRepository(pool),
		monitors:   repository.NewMonitorRepository(pool),
		admins:     repository.NewAdminRepository(pool),
	}
	if err := seedDemoData(ctx, repos, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}
	logger.Info("seed complete")
}

// seedDemoData inserts the demo households and accounts. Households and
// accounts that already exist are reused, so reruns only add what is missing.
func seedDemoData(ctx context.Context, repos seedRepos, cost int, logger *zap.Logger) error {
	_, err := repos.citizens.GetByEmail(ctx, "john@example.com")
	switch {
	case err == nil:
		logger.Info("demo data already present")
		return nil
	case !errors.Is(err, pgx.ErrNoRows):
		return err
	}

	hash, err := auth.HashPassword(demoPassword, cost)
	if err != nil {
		return err
	}

	households := []*domain.Household{
		{Address: "123 Rural Street, Village 1", Income: 25000},
		{Address: "456 Farm Road, Village 2", Income: 35000},
	}
	for i, h := range households {
		existing, err := ensureHousehold(ctx, repos.households, h)
		if err != nil {
			return err
		}
		households[i] = existing
	}

	healthOfficer := "Health Officer"
	citizens := []demoCitizen{
		{"John Doe", "john@example.com", "male", "1990-01-15", 0, "High School", nil},
		{"Jane Smith", "jane@example.com", "female", "1985-03-20", 1, "Bachelor's Degree", nil},
		{"Bob Wilson", "bob@example.com", "male", "1980-07-10", 0, "Master's Degree", &healthOfficer},
	}
	for _, dc := range citizens {
		dob, err := time.Parse("2006-01-02", dc.dob)
		if err != nil {
			return err
		}
		citizen := &domain.Citizen{
			Name:                     dc.name,
			Email:                    dc.email,
			PasswordHash:             hash,
			Gender:                   dc.gender,
			DOB:                      dob,
			HouseholdID:              households[dc.household].ID,
			EducationalQualification: dc.qualification,
		}
		if err := skipExisting(repos.citizens.Create(ctx, citizen, dc.position), dc.email, logger); err != nil {
			return err
		}
	}

	monitor := &domain.Monitor{Name: "Government Monitor", Email: "monitor@gov.in", PasswordHash: hash}
	if err := skipExisting(repos.monitors.Create(ctx, monitor), monitor.Email, logger); err != nil {
		return err
	}

	admin := &domain.Admin{Name: "Administrator", Email: "admin@gov.in", PasswordHash: hash}
	return skipExisting(repos.admins.Create(ctx, admin), admin.Email, logger)
}

// ensureHousehold returns the household already stored at h's address, or
// creates h when there is none.
func ensureHousehold(ctx context.Context, repo repository.HouseholdRepository, h *domain.Household) (*domain.Household, error) {
	existing, err := repo.GetByAddress(ctx, h.Address)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	if err := repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func skipExisting(err error, email string, logger *zap.Logger) error {
	if errors.Is(err, repository.ErrDuplicateEmail) {
		logger.Info("account exists, skipping", zap.String("email", email))
		return nil
	}
	if err == nil {
		logger.Info("account created", zap.String("email", email))
	}
	return err
}
