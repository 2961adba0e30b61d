package sql

import (
	"errors"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/saveblush/reraw-search/core/generic"
	"github.com/saveblush/reraw-search/core/utils/logger"
	"github.com/saveblush/reraw-search/models"
)

func createDatabase(cf *Configuration) error {
	db, err := gorm.Open(postgres.Open(dsn(cf, "")), &gorm.Config{})
	if err != nil {
		return err
	}
	defer CloseConnection(db)

	var exc string
	sql := "SELECT 'CREATE DATABASE " + cf.DatabaseName + "' WHERE NOT EXISTS (SELECT 1 FROM pg_database WHERE datname = ?)"
	err = db.Raw(sql, cf.DatabaseName).Scan(&exc).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Errorf("check already database error: %s", err)
	}
	if !generic.IsEmpty(exc) {
		err := db.Exec(exc).Error
		if err != nil {
			logger.Log.Errorf("create database error: %s", err)
			return err
		}
	}

	return nil
}

// Migration cache tables
func Migration(db *gorm.DB) error {
	err := db.AutoMigrate(&models.CacheEntry{})
	if err != nil {
		logger.Log.Errorf("db migration error: %s", err)
		return err
	}

	return nil
}
