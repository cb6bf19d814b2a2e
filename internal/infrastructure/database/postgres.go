package database

import (
	"fmt"

	"clinic-scheduling-api/config"
	"clinic-scheduling-api/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresConnection(cfg config.DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.TimeZone,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	logrus.Info("Successfully connected to PostgreSQL database")

	return db, nil
}

// Migrate creates the schema and the constraints AutoMigrate cannot
// express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&entity.User{},
		&entity.Department{},
		&entity.DoctorDepartment{},
		&entity.DoctorAvailability{},
		&entity.Appointment{},
		&entity.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Partial unique index: at most one non-cancelled appointment per
	// doctor slot. Cancelled rows fall out of scope so the slot can be
	// rebooked. This is the arbiter for concurrent bookings.
	stmt := fmt.Sprintf(
		"CREATE UNIQUE INDEX IF NOT EXISTS %s ON appointments (doctor_id, date, start_time) WHERE status <> 'cancelled'",
		entity.UniqDoctorSlotConstraint,
	)
	if err := db.Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create slot uniqueness index: %w", err)
	}

	logrus.Info("Database migration complete")
	return nil
}
