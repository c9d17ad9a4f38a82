package database

import (
	"log"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}
	if err := ApplyConstraints(db); err != nil {
		log.Fatalf("failed to apply constraints: %v", err)
	}

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.FieldType{},
		&models.Field{},
		&models.WeeklySlot{},
		&models.Client{},
		&models.Reservation{},
		&models.User{},
		&models.AuditEntry{},
	)
}

// ApplyConstraints adds the PostgreSQL-only guards AutoMigrate cannot express.
// No two active reservations on one field may share any instant; cancelled
// rows are ignored and [) bounds let bookings touch end to start.
func ApplyConstraints(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS btree_gist`,
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_no_overlap') THEN
				ALTER TABLE reservations ADD CONSTRAINT reservations_no_overlap
				EXCLUDE USING gist (
					field_id WITH =,
					tsrange(date + start_time, date + end_time, '[)') WITH &&
				) WHERE (status <> 'cancelled');
			END IF;
		END $$`,
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'weekly_slots_opening_before_closing') THEN
				ALTER TABLE weekly_slots ADD CONSTRAINT weekly_slots_opening_before_closing
				CHECK (opening < closing);
			END IF;
		END $$`,
		`DO $$
		BEGIN
			IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'reservations_start_before_end') THEN
				ALTER TABLE reservations ADD CONSTRAINT reservations_start_before_end
				CHECK (start_time < end_time);
			END IF;
		END $$`,
	}
	for _, stmt := range stmts {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
