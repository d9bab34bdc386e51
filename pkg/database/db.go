// Package database opens the GORM connection used by every repository.
// The driver comes from DB_DRIVER; sqlite is the default and is also what
// the test suites use with in-memory DSNs.
package database

import (
	"fmt"
	"time"

	"github.com/hostelease/hostelease/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the configured database and sets up the connection pool.
func Connect() error {
	driver := config.DatabaseDriver()
	dsn := config.DatabaseDSN()

	db, err := Open(driver, dsn)
	if err != nil {
		return err
	}

	DB = db
	return nil
}

// Open opens a database for an explicit driver/dsn pair. Tests use this
// with ("sqlite", "file::memory:?cache=shared").
func Open(driver, dsn string) (*gorm.DB, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("database: build dialector: %w", err)
	}

	gormCfg := &gorm.Config{
		// Request logging is handled by pkg/logger; GORM stays quiet.
		Logger: logger.Default.LogMode(logger.Silent),
		// Surface driver duplicate-key errors as gorm.ErrDuplicatedKey.
		TranslateError: true,
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	return db, nil
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "sqlite":
		return sqlite.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "mysql":
		return mysql.Open(dsn), nil
	case "sqlserver":
		return sqlserver.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (supported: sqlite, postgres, mysql, sqlserver)", driver)
	}
}
