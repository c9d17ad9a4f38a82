// Package testutil provides an in-memory store with the production schema.
package testutil

import (
	"testing"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/pkg/database"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLiteDB opens a private in-memory database. A single connection keeps
// every statement on the same database; code inside a transaction must use
// the transaction handle or it will block.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Seed holds one priced field with Monday hours, an active client and an
// admin user.
type Seed struct {
	FieldType models.FieldType
	Field     models.Field
	Slot      models.WeeklySlot
	Client    models.Client
	Admin     models.User
}

// SeedCourt inserts "Court A" (20/hour, Monday 07:00-22:00) and a client.
func SeedCourt(t *testing.T, db *gorm.DB) *Seed {
	t.Helper()

	s := &Seed{
		FieldType: models.FieldType{Name: "Futbol 5", HourlyPrice: 20},
	}
	mustCreate(t, db, &s.FieldType)

	s.Field = models.Field{
		Name:        "Court A",
		FieldTypeID: s.FieldType.ID,
		Location:    "North wing",
		MaxCapacity: 10,
		Available:   true,
	}
	mustCreate(t, db, &s.Field)

	s.Slot = models.WeeklySlot{
		FieldID:   s.Field.ID,
		DayOfWeek: 1,
		Opening:   mustClock(t, "07:00"),
		Closing:   mustClock(t, "22:00"),
	}
	mustCreate(t, db, &s.Slot)

	s.Client = models.Client{
		Name:     "Ana",
		Surname:  "Torres",
		Email:    "ana@example.com",
		Document: "0102030405",
		Phone:    "0991234567",
		Active:   true,
	}
	mustCreate(t, db, &s.Client)

	s.Admin = models.User{
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: "unused",
		Role:         models.RoleAdmin,
		Active:       true,
	}
	mustCreate(t, db, &s.Admin)

	return s
}

func mustCreate(t *testing.T, db *gorm.DB, v any) {
	t.Helper()
	if err := db.Create(v).Error; err != nil {
		t.Fatalf("seed %T: %v", v, err)
	}
}

func mustClock(t *testing.T, s string) datatypes.Time {
	t.Helper()
	c, err := models.ParseClock(s)
	if err != nil {
		t.Fatal(err)
	}
	return c
}
