package db

import (
	"fmt"

	configs "github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/config"
	"github.com/vikashgupta16/CodeBattle-Arena-sub000/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitDB(cfg *configs.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.PsqlURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	if err := db.AutoMigrate(&model.ArenaPlayerStats{}, &model.SubmissionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	return db, nil
}
