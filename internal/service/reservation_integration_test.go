//go:build integration

package service

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/testutil"
	"github.com/Eursukkul/canchas-booking/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newPostgresEnv recreates the schema, including the exclusion constraint,
// on the database named by TEST_DB_*.
func newPostgresEnv(t *testing.T) *env {
	t.Helper()

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5434"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "canchas_test_db"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "connect to test database")

	for _, table := range []string{
		models.EntityAuditLog, models.EntityReservations, models.EntityWeeklySlots,
		models.EntityFields, models.EntityFieldTypes, models.EntityClients, models.EntityUsers,
	} {
		require.NoError(t, db.Exec("DROP TABLE IF EXISTS "+table+" CASCADE").Error)
	}
	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.ApplyConstraints(db))

	e := &env{
		db:           db,
		seed:         testutil.SeedCourt(t, db),
		auditLog:     repository.NewAuditRepository(db),
		fields:       repository.NewFieldRepository(db),
		fieldTypes:   repository.NewFieldTypeRepository(db),
		slots:        repository.NewWeeklySlotRepository(db),
		clients:      repository.NewClientRepository(db),
		reservations: repository.NewReservationRepository(db),
		users:        repository.NewUserRepository(db),
	}
	e.recorder = audit.NewRecorder(e.auditLog)
	return e
}

// 20 operators try to book overlapping hours on the same court at once:
// exactly one wins, the rest see the slot taken.
func TestConcurrentOverlappingReservations(t *testing.T) {
	e := newPostgresEnv(t)
	svc := e.reservationService()

	attempts := 20
	var wg sync.WaitGroup
	var mu sync.Mutex
	var created int
	var rejected []error

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func(i int) {
			defer wg.Done()
			// 09:30-10:45 and 10:15-11:30 overlap each other.
			start, end := clock(9, 30), clock(10, 45)
			if i%2 == 1 {
				start, end = clock(10, 15), clock(11, 30)
			}
			_, err := svc.Create(t.Context(), operator, CreateReservationInput{
				ClientID: e.seed.Client.ID,
				FieldID:  e.seed.Field.ID,
				Date:     monday,
				Start:    start,
				End:      end,
			})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				rejected = append(rejected, err)
				return
			}
			created++
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created, "only one overlapping reservation may succeed")
	assert.Len(t, rejected, attempts-1)
	for _, err := range rejected {
		_, unavailable := apperr.IsUnavailable(err)
		assert.True(t, unavailable || errors.Is(err, apperr.ErrConflict), "unexpected error: %v", err)
	}

	var active int64
	e.db.Model(&models.Reservation{}).
		Where("field_id = ? AND date = ? AND status <> ?", e.seed.Field.ID, monday, models.StatusCancelled).
		Count(&active)
	assert.Equal(t, int64(1), active)
	assert.Len(t, e.auditEntries(t, models.EntityReservations), 1)
}

// Concurrent back-to-back bookings never collide.
func TestConcurrentAdjacentReservations(t *testing.T) {
	e := newPostgresEnv(t)
	svc := e.reservationService()

	var wg sync.WaitGroup
	errs := make(chan error, 6)
	wg.Add(6)
	for h := 8; h < 14; h++ {
		go func(h int) {
			defer wg.Done()
			_, err := svc.Create(t.Context(), operator, CreateReservationInput{
				ClientID: e.seed.Client.ID,
				FieldID:  e.seed.Field.ID,
				Date:     monday,
				Start:    clock(h, 0),
				End:      clock(h+1, 0),
			})
			errs <- err
		}(h)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

// The exclusion constraint rejects an overlap even when the service-level
// check is bypassed.
func TestExclusionConstraint_RejectsDirectOverlap(t *testing.T) {
	e := newPostgresEnv(t)

	first := &models.Reservation{
		ClientID: e.seed.Client.ID, FieldID: e.seed.Field.ID, Date: monday,
		StartTime: clock(10, 0), EndTime: clock(11, 0), Status: models.StatusConfirmed, TotalAmount: 20,
	}
	require.NoError(t, e.reservations.Create(t.Context(), e.db, first))

	overlap := &models.Reservation{
		ClientID: e.seed.Client.ID, FieldID: e.seed.Field.ID, Date: monday,
		StartTime: clock(10, 30), EndTime: clock(11, 30), Status: models.StatusPending, TotalAmount: 20,
	}
	err := e.reservations.Create(t.Context(), e.db, overlap)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	cancelled := *overlap
	cancelled.ID = 0
	cancelled.Status = models.StatusCancelled
	assert.NoError(t, e.reservations.Create(t.Context(), e.db, &cancelled), "cancelled rows are ignored")
}
