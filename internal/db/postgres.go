package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/gymbridge-backend/internal/logger"
	"github.com/yungbote/gymbridge-backend/internal/types"
	"github.com/yungbote/gymbridge-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "gymbridge", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.Client{},
		&types.Plan{},
		&types.Contract{},
		&types.TrackingRecord{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	if err := ApplyConstraints(s.db); err != nil {
		s.log.Error("Failed to apply contract constraints", "error", err)
		return err
	}
	return nil
}

// ApplyConstraints installs the partial unique index that guarantees at
// most one active contract per (client, plan) pair. Concurrent associate
// calls on the same pair race on this index; the loser's insert fails and
// its whole unit of work rolls back.
func ApplyConstraints(db *gorm.DB) error {
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_contract_one_active_per_pair
		ON "contract" (client_id, plan_id)
		WHERE state = 'active' AND deleted_at IS NULL
	`).Error
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
