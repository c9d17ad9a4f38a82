// Package availability decides whether a field can be booked for a given
// date and half-open [start, end) interval.
//
// The check is advisory: it gives users an early, readable answer. The
// reservation write path re-runs it inside the insert transaction and the
// database exclusion constraint has the final word.
package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"
)

const (
	ReasonNoOperatingHours = "no operating hours configured for this day"
	reasonOutsideHours     = "requested interval outside operating hours %s–%s"
	reasonOverlap          = "overlaps existing reservation %s–%s"
)

var tracer = otel.Tracer("github.com/Eursukkul/canchas-booking/internal/availability")

type FieldReader interface {
	FindByID(ctx context.Context, id uint) (*models.Field, error)
}

type SlotReader interface {
	FindByFieldAndDay(ctx context.Context, fieldID uint, dayOfWeek int) (*models.WeeklySlot, error)
}

type ReservationReader interface {
	FindActiveByFieldAndDate(ctx context.Context, fieldID uint, date time.Time) ([]models.Reservation, error)
}

type Query struct {
	FieldID uint
	Date    time.Time
	Start   datatypes.Time
	End     datatypes.Time
}

func (q Query) Validate() error {
	if q.FieldID == 0 {
		return fmt.Errorf("%w: field id is required", apperr.ErrInvalidInput)
	}
	if q.Date.IsZero() {
		return fmt.Errorf("%w: date is required", apperr.ErrInvalidInput)
	}
	if q.Start >= q.End {
		return fmt.Errorf("%w: start must be before end", apperr.ErrInvalidInput)
	}
	return nil
}

// Result is a normal outcome, not an error. Reason is set when Available is false.
type Result struct {
	Available bool
	Reason    string
}

func Available() Result {
	return Result{Available: true}
}

func Unavailable(reason string) Result {
	return Result{Reason: reason}
}

type Engine interface {
	CheckAvailability(ctx context.Context, q Query) (Result, error)
	ComputeAmount(ctx context.Context, fieldID uint, start, end datatypes.Time) (float64, error)
}

type engine struct {
	fields       FieldReader
	slots        SlotReader
	reservations ReservationReader
}

func NewEngine(fields FieldReader, slots SlotReader, reservations ReservationReader) Engine {
	return &engine{
		fields:       fields,
		slots:        slots,
		reservations: reservations,
	}
}

func (e *engine) CheckAvailability(ctx context.Context, q Query) (Result, error) {
	ctx, span := tracer.Start(ctx, "availability.CheckAvailability")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("field.id", int64(q.FieldID)),
		attribute.String("reservation.date", q.Date.Format(models.DateLayout)),
	)

	if err := q.Validate(); err != nil {
		return Result{}, err
	}

	if _, err := e.fields.FindByID(ctx, q.FieldID); err != nil {
		return Result{}, fmt.Errorf("field %d: %w", q.FieldID, err)
	}

	slot, err := e.slots.FindByFieldAndDay(ctx, q.FieldID, models.ISOWeekday(q.Date))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Unavailable(ReasonNoOperatingHours), nil
		}
		return Result{}, err
	}

	if q.Start < slot.Opening || q.End > slot.Closing {
		return Unavailable(fmt.Sprintf(reasonOutsideHours,
			models.ShortClock(slot.Opening), models.ShortClock(slot.Closing))), nil
	}

	existing, err := e.reservations.FindActiveByFieldAndDate(ctx, q.FieldID, q.Date)
	if err != nil {
		return Result{}, err
	}
	for _, r := range existing {
		if !r.Status.Active() {
			continue
		}
		if Overlaps(q.Start, q.End, r.StartTime, r.EndTime) {
			span.SetAttributes(attribute.Int64("conflict.reservation.id", int64(r.ID)))
			return Unavailable(fmt.Sprintf(reasonOverlap,
				models.ShortClock(r.StartTime), models.ShortClock(r.EndTime))), nil
		}
	}

	return Available(), nil
}

func (e *engine) ComputeAmount(ctx context.Context, fieldID uint, start, end datatypes.Time) (float64, error) {
	if start >= end {
		return 0, fmt.Errorf("%w: start must be before end", apperr.ErrInvalidInput)
	}

	field, err := e.fields.FindByID(ctx, fieldID)
	if err != nil {
		return 0, fmt.Errorf("field %d: %w", fieldID, err)
	}
	if field.FieldType == nil {
		return 0, fmt.Errorf("field %d has no field type loaded", fieldID)
	}

	return Amount(field.FieldType.HourlyPrice, start, end), nil
}

// Overlaps is the half-open interval test: [s1, e1) and [s2, e2) share time
// only when s1 < e2 and e1 > s2, so back-to-back bookings do not collide.
func Overlaps(s1, e1, s2, e2 datatypes.Time) bool {
	return s1 < e2 && e1 > s2
}

func Amount(hourlyPrice float64, start, end datatypes.Time) float64 {
	return models.DurationHours(start, end) * hourlyPrice
}
