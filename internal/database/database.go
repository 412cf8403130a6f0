package database

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/portal-space/core/internal/config"
	"github.com/portal-space/core/internal/models"
)

// Connect opens a MySQL connection and optionally runs auto-migration.
func Connect(cfg *config.AppConfig, autoMigrate bool) (*gorm.DB, error) {
	logLevel := logger.Warn
	if !cfg.IsProduction() {
		logLevel = logger.Info
	}

	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:               cfg.DSN,
		DefaultStringSize: 191,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	if autoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("migration failed: %w", err)
		}
	}

	return db, nil
}

// Migrate runs GORM auto-migration for all models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.UserModel{},
		&models.TeamModel{},
		&models.TeamMemberModel{},
		&models.ProductKindModel{},
		&models.ProductTypeModel{},
		&models.SolutionTypeModel{},
		&models.DocTypeModel{},
		&models.DocumentModel{},
		&models.CaseModel{},
		&models.RouteTypeModel{},
		&models.RouteModel{},
		&models.PlanModel{},
		&models.VideoModel{},
		&models.ReleaseModel{},
		&models.ProductModel{},
		&models.SolutionDraftModel{},
		&models.SolutionModel{},
		&models.NewsModel{},
		&models.LabModel{},
		&models.FollowModel{},
		&models.SolutionFollowModel{},
		&models.PraiseModel{},
		&models.CollectModel{},
	)
}
