package db

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenGorm opens the configured driver: "mysql" with a DSN, or "sqlite"
// with a file path for single-node deployments.
func OpenGorm(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		return OpenGormWithDialector(mysql.Open(dsn))
	case "sqlite":
		return OpenGormWithDialector(sqlite.Open(dsn))
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}
