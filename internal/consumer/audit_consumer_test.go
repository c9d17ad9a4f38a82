package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/testutil"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Fake Acknowledger ---

type fakeAck struct {
	acked   int
	nacked  int
	requeue bool
}

func (f *fakeAck) Ack(tag uint64, multiple bool) error {
	f.acked++
	return nil
}

func (f *fakeAck) Nack(tag uint64, multiple, requeue bool) error {
	f.nacked++
	f.requeue = requeue
	return nil
}

func (f *fakeAck) Reject(tag uint64, requeue bool) error {
	return f.Nack(tag, false, requeue)
}

// --- Mock AuditRepository ---

type mockAuditRepo struct {
	upsertFn func(ctx context.Context, entry *models.AuditEntry) (bool, error)
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *models.AuditEntry) error { return nil }
func (m *mockAuditRepo) Upsert(ctx context.Context, entry *models.AuditEntry) (bool, error) {
	return m.upsertFn(ctx, entry)
}
func (m *mockAuditRepo) Find(ctx context.Context, filter repository.AuditFilter) ([]models.AuditEntry, error) {
	return nil, nil
}

func delivery(t *testing.T, ack amqp.Acknowledger, payload any) amqp.Delivery {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	return amqp.Delivery{Acknowledger: ack, Body: body}
}

func sampleEntry() models.AuditEntry {
	return models.AuditEntry{
		UID:         "2d1f0c44-8a3e-4f51-9a59-0d5c0a6f3b11",
		Actor:       "op@example.com",
		Entity:      models.EntityReservations,
		Action:      models.ActionInsert,
		Description: "reservation created",
		After:       models.Snapshot(`{"id":5}`),
		CreatedAt:   time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
	}
}

// --- Tests ---

func TestHandleMessage_StoresOnceAcrossRedelivery(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	ac := NewAuditConsumer(repository.NewAuditRepository(db))

	first := &fakeAck{}
	ac.handleMessage(delivery(t, first, sampleEntry()))
	second := &fakeAck{}
	ac.handleMessage(delivery(t, second, sampleEntry()))

	assert.Equal(t, 1, first.acked)
	assert.Equal(t, 1, second.acked)

	var entries []models.AuditEntry
	require.NoError(t, db.Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "op@example.com", entries[0].Actor)
	assert.True(t, entries[0].CreatedAt.Equal(sampleEntry().CreatedAt))
}

func TestHandleMessage_BadJSON(t *testing.T) {
	ack := &fakeAck{}
	ac := NewAuditConsumer(&mockAuditRepo{})

	ac.handleMessage(amqp.Delivery{Acknowledger: ack, Body: []byte("{")})

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleMessage_MissingUID(t *testing.T) {
	ack := &fakeAck{}
	ac := NewAuditConsumer(&mockAuditRepo{})
	entry := sampleEntry()
	entry.UID = ""

	ac.handleMessage(delivery(t, ack, entry))

	assert.Equal(t, 1, ack.nacked)
	assert.False(t, ack.requeue)
}

func TestHandleMessage_StoreErrorRequeues(t *testing.T) {
	ack := &fakeAck{}
	ac := NewAuditConsumer(&mockAuditRepo{
		upsertFn: func(ctx context.Context, entry *models.AuditEntry) (bool, error) {
			return false, errors.New("database is locked")
		},
	})

	ac.handleMessage(delivery(t, ack, sampleEntry()))

	assert.Equal(t, 0, ack.acked)
	assert.Equal(t, 1, ack.nacked)
	assert.True(t, ack.requeue)
}

func TestStart_DrainsUntilClosed(t *testing.T) {
	stored := make(chan string, 1)
	ac := NewAuditConsumer(&mockAuditRepo{
		upsertFn: func(ctx context.Context, entry *models.AuditEntry) (bool, error) {
			stored <- entry.UID
			return true, nil
		},
	})

	msgs := make(chan amqp.Delivery, 1)
	msgs <- delivery(t, &fakeAck{}, sampleEntry())
	close(msgs)
	ac.Start(msgs)

	select {
	case uid := <-stored:
		assert.Equal(t, sampleEntry().UID, uid)
	case <-time.After(time.Second):
		t.Fatal("entry was not consumed")
	}
}
