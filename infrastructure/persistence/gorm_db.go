package persistence

import (
	"fmt"

	"command-center/domain/model"
	"command-center/infrastructure/configuration"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewRepositories opens the content pipeline database (MySQL via gorm) and
// migrates its tables.
func NewRepositories() (*gorm.DB, error) {
	cfg := configuration.C.Database.MySql
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(
		&model.Idea{},
		&model.ContentDraft{},
		&model.ScheduledPost{},
		&model.Asset{},
	); err != nil {
		return nil, fmt.Errorf("migrate content tables: %w", err)
	}
	return db, nil
}
