// Package audit writes the append-only audit trail. Every successful
// mutation, login and logout produces exactly one entry, recorded after the
// change itself is durable.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"reflect"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// RetryRoutingKey carries entries whose synchronous write failed.
const RetryRoutingKey = "audit.retry"

var tracer = otel.Tracer("github.com/Eursukkul/canchas-booking/internal/audit")

type Store interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	Find(ctx context.Context, filter repository.AuditFilter) ([]models.AuditEntry, error)
}

type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type Recorder interface {
	// Record returns the entry even when it could not be stored; the error
	// then wraps apperr.ErrAuditWrite and must not undo the caller's change.
	Record(ctx context.Context, actor, entity string, action models.AuditAction, description string, before, after any) (*models.AuditEntry, error)
	Query(ctx context.Context, filter repository.AuditFilter) ([]models.AuditEntry, error)
}

type Option func(*recorder)

func WithClock(now func() time.Time) Option {
	return func(r *recorder) { r.now = now }
}

// WithRetryPublisher hands failed entries to a queue for later persistence.
func WithRetryPublisher(p Publisher) Option {
	return func(r *recorder) { r.publisher = p }
}

type recorder struct {
	store     Store
	publisher Publisher
	now       func() time.Time
}

func NewRecorder(store Store, opts ...Option) Recorder {
	r := &recorder{store: store, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *recorder) Record(ctx context.Context, actor, entity string, action models.AuditAction, description string, before, after any) (*models.AuditEntry, error) {
	ctx, span := tracer.Start(ctx, "audit.Record")
	defer span.End()
	span.SetAttributes(
		attribute.String("audit.entity", entity),
		attribute.String("audit.action", string(action)),
	)

	if err := validateShape(entity, action, before, after); err != nil {
		return nil, err
	}
	if actor == "" {
		actor = models.ActorSystem
	}

	beforeJSON, err := snapshot(before)
	if err != nil {
		return nil, fmt.Errorf("%w: before snapshot: %v", apperr.ErrInvalidInput, err)
	}
	afterJSON, err := snapshot(after)
	if err != nil {
		return nil, fmt.Errorf("%w: after snapshot: %v", apperr.ErrInvalidInput, err)
	}

	entry := &models.AuditEntry{
		UID:         uuid.NewString(),
		Actor:       actor,
		Entity:      entity,
		Action:      action,
		Description: description,
		Before:      beforeJSON,
		After:       afterJSON,
		CreatedAt:   r.now().UTC(),
	}

	if err := r.store.Create(ctx, entry); err != nil {
		span.RecordError(err)
		log.Printf("[AuditRecorder] failed to write %s %s entry %s: %v", entity, action, entry.UID, err)
		r.requeue(ctx, entry)
		return entry, fmt.Errorf("%w: %v", apperr.ErrAuditWrite, err)
	}

	return entry, nil
}

func (r *recorder) requeue(ctx context.Context, entry *models.AuditEntry) {
	if r.publisher == nil {
		return
	}
	if err := r.publisher.Publish(ctx, RetryRoutingKey, entry); err != nil {
		log.Printf("[AuditRecorder] failed to queue entry %s for retry: %v", entry.UID, err)
		return
	}
	log.Printf("[AuditRecorder] queued entry %s for retry", entry.UID)
}

func (r *recorder) Query(ctx context.Context, filter repository.AuditFilter) ([]models.AuditEntry, error) {
	if filter.Action != "" && !filter.Action.Valid() {
		return nil, fmt.Errorf("%w: unknown action %q", apperr.ErrInvalidInput, filter.Action)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return nil, fmt.Errorf("%w: to must not be before from", apperr.ErrInvalidInput)
	}
	return r.store.Find(ctx, filter)
}

// validateShape enforces which snapshots each action carries: before for
// UPDATE/DELETE, after for INSERT/UPDATE, none for LOGIN/LOGOUT.
func validateShape(entity string, action models.AuditAction, before, after any) error {
	if entity == "" {
		return fmt.Errorf("%w: audit entity is required", apperr.ErrInvalidInput)
	}

	var wantBefore, wantAfter bool
	switch action {
	case models.ActionInsert:
		wantAfter = true
	case models.ActionUpdate:
		wantBefore, wantAfter = true, true
	case models.ActionDelete:
		wantBefore = true
	case models.ActionLogin, models.ActionLogout:
	default:
		return fmt.Errorf("%w: unknown audit action %q", apperr.ErrInvalidInput, action)
	}

	if isNil(before) == wantBefore {
		return fmt.Errorf("%w: %s entry before snapshot mismatch", apperr.ErrInvalidInput, action)
	}
	if isNil(after) == wantAfter {
		return fmt.Errorf("%w: %s entry after snapshot mismatch", apperr.ErrInvalidInput, action)
	}
	return nil
}

func snapshot(v any) (models.Snapshot, error) {
	if isNil(v) {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return models.Snapshot(b), nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
