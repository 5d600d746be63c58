package database

import (
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/mapharvest/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase connects with the given driver and migrates all entities.
// For sqlite dsn is a file path.
func NewDatabase(driver, dsn string) (*Database, error) {
	dialector, err := openDialector(driver, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.HarvestState{},
		&entities.HarvestedDocument{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("Database initialized", "driver", driverName(driver))

	return &Database{DB: db}, nil
}

func openDialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", DriverSQLite:
		return sqlite.Open(dsn), nil
	case DriverPostgres:
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

func driverName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return driver
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the underlying connection.
func (d *Database) Ping() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
