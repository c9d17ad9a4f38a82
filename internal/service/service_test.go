package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/availability"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"github.com/Eursukkul/canchas-booking/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	monday   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	operator = session.Actor{UserID: 2, Email: "op@example.com", Role: models.RoleOperator}
)

func clock(h, m int) datatypes.Time {
	return datatypes.NewTime(h, m, 0, 0)
}

// env wires real repositories over an in-memory store.
type env struct {
	db       *gorm.DB
	seed     *testutil.Seed
	auditLog repository.AuditRepository
	recorder audit.Recorder

	fields       repository.FieldRepository
	fieldTypes   repository.FieldTypeRepository
	slots        repository.WeeklySlotRepository
	clients      repository.ClientRepository
	reservations repository.ReservationRepository
	users        repository.UserRepository
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
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

func (e *env) engine() availability.Engine {
	return availability.NewEngine(e.fields, e.slots, e.reservations)
}

func (e *env) reservationService() ReservationService {
	return NewReservationService(e.reservations, e.engine(), e.recorder)
}

func (e *env) auditEntries(t *testing.T, entity string) []models.AuditEntry {
	t.Helper()
	entries, err := e.auditLog.Find(context.Background(), repository.AuditFilter{Entity: entity})
	require.NoError(t, err)
	return entries
}

// failingStore makes every synchronous audit write fail.
type failingStore struct{}

func (failingStore) Create(ctx context.Context, entry *models.AuditEntry) error {
	return errors.New("audit table unavailable")
}

func (failingStore) Find(ctx context.Context, filter repository.AuditFilter) ([]models.AuditEntry, error) {
	return nil, nil
}
