package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/availability"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	reasonClientInactive = "client is inactive"
	reasonFieldClosed    = "field is not available for booking"
)

type CreateReservationInput struct {
	ClientID uint
	FieldID  uint
	Date     time.Time
	Start    datatypes.Time
	End      datatypes.Time
	// Status is pending when empty; only pending or confirmed are accepted.
	Status models.ReservationStatus
	Notes  string
}

// Quote is the answer of the availability endpoint.
type Quote struct {
	availability.Result
	Amount float64
}

type ReservationService interface {
	Quote(ctx context.Context, q availability.Query) (*Quote, error)
	Create(ctx context.Context, actor session.Actor, in CreateReservationInput) (*models.Reservation, error)
	Get(ctx context.Context, id uint) (*models.Reservation, error)
	List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error)
	ChangeStatus(ctx context.Context, actor session.Actor, id uint, next models.ReservationStatus) (*models.Reservation, error)
}

type reservationService struct {
	reservationRepo repository.ReservationRepository
	engine          availability.Engine
	recorder        audit.Recorder
}

func NewReservationService(reservationRepo repository.ReservationRepository, engine availability.Engine, recorder audit.Recorder) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		engine:          engine,
		recorder:        recorder,
	}
}

// Quote answers with the same verdict Create would reach, including fields
// flagged as not available for booking.
func (s *reservationService) Quote(ctx context.Context, q availability.Query) (*Quote, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	field, err := repository.NewFieldRepository(s.reservationRepo.GetDB()).FindByID(ctx, q.FieldID)
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", q.FieldID, err)
	}

	res := availability.Unavailable(reasonFieldClosed)
	if field.Available {
		if res, err = s.engine.CheckAvailability(ctx, q); err != nil {
			return nil, err
		}
	}

	amount, err := s.engine.ComputeAmount(ctx, q.FieldID, q.Start, q.End)
	if err != nil {
		return nil, err
	}
	return &Quote{Result: res, Amount: amount}, nil
}

func (s *reservationService) Create(ctx context.Context, actor session.Actor, in CreateReservationInput) (*models.Reservation, error) {
	q := availability.Query{FieldID: in.FieldID, Date: in.Date, Start: in.Start, End: in.End}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if in.ClientID == 0 {
		return nil, fmt.Errorf("%w: client id is required", apperr.ErrInvalidInput)
	}

	status := in.Status
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusPending && status != models.StatusConfirmed {
		return nil, fmt.Errorf("%w: new reservations must be pending or confirmed", apperr.ErrInvalidInput)
	}

	var created *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fieldRepo := repository.NewFieldRepository(tx)
		reservationRepo := repository.NewReservationRepository(tx)

		// 1. Lock the field row so concurrent inserts on it are serialized
		field, err := fieldRepo.FindByIDForUpdate(ctx, tx, in.FieldID)
		if err != nil {
			return fmt.Errorf("field %d: %w", in.FieldID, err)
		}
		if !field.Available {
			return &apperr.UnavailableError{Reason: reasonFieldClosed}
		}

		// 2. Client must exist and be active
		client, err := repository.NewClientRepository(tx).FindByID(ctx, in.ClientID)
		if err != nil {
			return fmt.Errorf("client %d: %w", in.ClientID, err)
		}
		if !client.Active {
			return &apperr.UnavailableError{Reason: reasonClientInactive}
		}

		// 3. Re-run the availability check against the locked state
		engine := availability.NewEngine(fieldRepo, repository.NewWeeklySlotRepository(tx), reservationRepo)
		res, err := engine.CheckAvailability(ctx, q)
		if err != nil {
			return err
		}
		if !res.Available {
			return &apperr.UnavailableError{Reason: res.Reason}
		}

		// 4. Price and insert; the exclusion constraint catches anything the lock missed
		amount, err := engine.ComputeAmount(ctx, in.FieldID, in.Start, in.End)
		if err != nil {
			return err
		}

		reservation := &models.Reservation{
			ClientID:    in.ClientID,
			FieldID:     in.FieldID,
			Date:        in.Date,
			StartTime:   in.Start,
			EndTime:     in.End,
			Status:      status,
			TotalAmount: amount,
			Notes:       in.Notes,
		}
		if err := s.reservationRepo.Create(ctx, tx, reservation); err != nil {
			return err
		}
		created = reservation
		return nil
	})
	if err != nil {
		return nil, err
	}

	record(ctx, s.recorder, actor, models.EntityReservations, models.ActionInsert,
		fmt.Sprintf("reservation %d on field %d for %s %s-%s", created.ID, created.FieldID,
			created.Date.Format(models.DateLayout), created.StartTime, created.EndTime),
		nil, created)

	if full, err := s.reservationRepo.FindByID(ctx, created.ID); err == nil {
		return full, nil
	}
	return created, nil
}

func (s *reservationService) Get(ctx context.Context, id uint) (*models.Reservation, error) {
	return s.reservationRepo.FindByID(ctx, id)
}

func (s *reservationService) List(ctx context.Context, filter repository.ReservationFilter) ([]models.Reservation, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, filter.Status)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fmt.Errorf("%w: to must not be before from", apperr.ErrInvalidInput)
	}
	return s.reservationRepo.FindAll(ctx, filter)
}

func (s *reservationService) ChangeStatus(ctx context.Context, actor session.Actor, id uint, next models.ReservationStatus) (*models.Reservation, error) {
	if !next.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", apperr.ErrInvalidInput, next)
	}

	var before, after *models.Reservation

	err := s.reservationRepo.GetDB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		reservationRepo := repository.NewReservationRepository(tx)

		current, err := reservationRepo.FindByID(ctx, id)
		if err != nil {
			return fmt.Errorf("reservation %d: %w", id, err)
		}
		if !current.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s to %s", apperr.ErrInvalidTransition, current.Status, next)
		}

		if err := s.reservationRepo.UpdateStatus(ctx, tx, id, next); err != nil {
			return err
		}

		updated, err := reservationRepo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before = reservationRow(current)
		after = reservationRow(updated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	record(ctx, s.recorder, actor, models.EntityReservations, models.ActionUpdate,
		fmt.Sprintf("reservation %d status %s -> %s", id, before.Status, next),
		before, after)

	return s.reservationRepo.FindByID(ctx, id)
}

// reservationRow copies r without its preloaded associations.
func reservationRow(r *models.Reservation) *models.Reservation {
	row := *r
	row.Client = nil
	row.Field = nil
	return &row
}
