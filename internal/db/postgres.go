package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/bramwell/claimsdesk-backend/internal/logger"
	"github.com/bramwell/claimsdesk-backend/internal/types"
	"github.com/bramwell/claimsdesk-backend/internal/utils"
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
	postgresName := utils.GetEnv("POSTGRES_NAME", "claimsdesk", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

// AllModels is the full migrated schema. Tests reuse it against an
// in-memory database.
func AllModels() []interface{} {
	return []interface{}{
		&types.User{},
		&types.UserToken{},
		&types.InsuranceProvider{},
		&types.Client{},
		&types.ClientIncident{},
		&types.Business{},
		&types.ApplicationStatus{},
		&types.ApplicationType{},
		&types.Application{},
		&types.ApplicationLog{},
		&types.Assessment{},
		&types.AssessmentNote{},
		&types.VideoRoom{},
		&types.VideoRecording{},
		&types.Claim{},
		&types.CauseCategory{},
		&types.WhatCategory{},
		&types.HowCategory{},
		&types.ClaimWhat{},
		&types.ClaimHow{},
		&types.ClaimCause{},
		&types.WhatQuestionTitle{},
		&types.WhatQuestion{},
		&types.WhatQuestionOption{},
		&types.WhatQuestionAnswer{},
		&types.HowQuestionTitle{},
		&types.HowQuestion{},
		&types.HowQuestionOption{},
		&types.HowQuestionAnswer{},
		&types.Survey{},
		&types.SurveyCategory{},
		&types.SurveyCategoryType{},
		&types.SurveyTitle{},
		&types.SurveyQuestion{},
		&types.SurveyQuestionOption{},
		&types.SurveyAnswer{},
	}
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := s.db.AutoMigrate(AllModels()...); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
