package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/audit"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
	"github.com/Eursukkul/canchas-booking/internal/session"
)

type FieldTypeService interface {
	Create(ctx context.Context, actor session.Actor, ft *models.FieldType) error
	List(ctx context.Context) ([]models.FieldType, error)
}

type fieldTypeService struct {
	repo     repository.FieldTypeRepository
	recorder audit.Recorder
}

func NewFieldTypeService(repo repository.FieldTypeRepository, recorder audit.Recorder) FieldTypeService {
	return &fieldTypeService{repo: repo, recorder: recorder}
}

func (s *fieldTypeService) Create(ctx context.Context, actor session.Actor, ft *models.FieldType) error {
	ft.Name = strings.TrimSpace(ft.Name)
	if ft.Name == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	if ft.HourlyPrice < 0 {
		return fmt.Errorf("%w: hourly price must not be negative", apperr.ErrInvalidInput)
	}

	exists, err := s.repo.ExistsByName(ctx, ft.Name)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: field type %q", apperr.ErrDuplicate, ft.Name)
	}

	if err := s.repo.Create(ctx, ft); err != nil {
		return fmt.Errorf("create field type: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityFieldTypes, models.ActionInsert,
		fmt.Sprintf("field type %q created", ft.Name), nil, ft)
	return nil
}

func (s *fieldTypeService) List(ctx context.Context) ([]models.FieldType, error) {
	return s.repo.FindAll(ctx)
}

type FieldService interface {
	Create(ctx context.Context, actor session.Actor, field *models.Field) (*models.Field, error)
	Get(ctx context.Context, id uint) (*models.Field, error)
	List(ctx context.Context, onlyAvailable bool) ([]models.Field, error)
	Update(ctx context.Context, actor session.Actor, field *models.Field) (*models.Field, error)
	Delete(ctx context.Context, actor session.Actor, id uint) error
}

type fieldService struct {
	fieldRepo     repository.FieldRepository
	fieldTypeRepo repository.FieldTypeRepository
	recorder      audit.Recorder
}

func NewFieldService(fieldRepo repository.FieldRepository, fieldTypeRepo repository.FieldTypeRepository, recorder audit.Recorder) FieldService {
	return &fieldService{
		fieldRepo:     fieldRepo,
		fieldTypeRepo: fieldTypeRepo,
		recorder:      recorder,
	}
}

func (s *fieldService) validate(ctx context.Context, field *models.Field) error {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return fmt.Errorf("%w: name is required", apperr.ErrInvalidInput)
	}
	if field.MaxCapacity <= 0 {
		return fmt.Errorf("%w: max capacity must be positive", apperr.ErrInvalidInput)
	}
	if _, err := s.fieldTypeRepo.FindByID(ctx, field.FieldTypeID); err != nil {
		return fmt.Errorf("field type %d: %w", field.FieldTypeID, err)
	}
	return nil
}

func (s *fieldService) Create(ctx context.Context, actor session.Actor, field *models.Field) (*models.Field, error) {
	field.ID = 0
	if err := s.validate(ctx, field); err != nil {
		return nil, err
	}
	if err := s.fieldRepo.Create(ctx, field); err != nil {
		return nil, fmt.Errorf("create field: %w", err)
	}

	created, err := s.fieldRepo.FindByID(ctx, field.ID)
	if err != nil {
		return nil, err
	}

	record(ctx, s.recorder, actor, models.EntityFields, models.ActionInsert,
		fmt.Sprintf("field %q created", created.Name), nil, fieldRow(created))
	return created, nil
}

func (s *fieldService) Get(ctx context.Context, id uint) (*models.Field, error) {
	return s.fieldRepo.FindByID(ctx, id)
}

func (s *fieldService) List(ctx context.Context, onlyAvailable bool) ([]models.Field, error) {
	return s.fieldRepo.FindAll(ctx, onlyAvailable)
}

func (s *fieldService) Update(ctx context.Context, actor session.Actor, field *models.Field) (*models.Field, error) {
	current, err := s.fieldRepo.FindByID(ctx, field.ID)
	if err != nil {
		return nil, fmt.Errorf("field %d: %w", field.ID, err)
	}
	if err := s.validate(ctx, field); err != nil {
		return nil, err
	}

	field.CreatedAt = current.CreatedAt
	field.FieldType = nil
	if err := s.fieldRepo.Update(ctx, field); err != nil {
		return nil, fmt.Errorf("update field: %w", err)
	}

	updated, err := s.fieldRepo.FindByID(ctx, field.ID)
	if err != nil {
		return nil, err
	}

	record(ctx, s.recorder, actor, models.EntityFields, models.ActionUpdate,
		fmt.Sprintf("field %q updated", updated.Name), fieldRow(current), fieldRow(updated))
	return updated, nil
}

func (s *fieldService) Delete(ctx context.Context, actor session.Actor, id uint) error {
	current, err := s.fieldRepo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("field %d: %w", id, err)
	}

	inUse, err := s.fieldRepo.HasReservations(ctx, id)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("field %q: %w", current.Name, apperr.ErrInUse)
	}

	if err := s.fieldRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete field: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityFields, models.ActionDelete,
		fmt.Sprintf("field %q deleted", current.Name), fieldRow(current), nil)
	return nil
}

func fieldRow(f *models.Field) *models.Field {
	row := *f
	row.FieldType = nil
	return &row
}

type SlotService interface {
	List(ctx context.Context, fieldID uint) ([]models.WeeklySlot, error)
	Create(ctx context.Context, actor session.Actor, slot *models.WeeklySlot) error
	Delete(ctx context.Context, actor session.Actor, fieldID, slotID uint) error
}

type slotService struct {
	slotRepo  repository.WeeklySlotRepository
	fieldRepo repository.FieldRepository
	recorder  audit.Recorder
}

func NewSlotService(slotRepo repository.WeeklySlotRepository, fieldRepo repository.FieldRepository, recorder audit.Recorder) SlotService {
	return &slotService{slotRepo: slotRepo, fieldRepo: fieldRepo, recorder: recorder}
}

func (s *slotService) List(ctx context.Context, fieldID uint) ([]models.WeeklySlot, error) {
	if _, err := s.fieldRepo.FindByID(ctx, fieldID); err != nil {
		return nil, fmt.Errorf("field %d: %w", fieldID, err)
	}
	return s.slotRepo.FindByField(ctx, fieldID)
}

func (s *slotService) Create(ctx context.Context, actor session.Actor, slot *models.WeeklySlot) error {
	if slot.DayOfWeek < 1 || slot.DayOfWeek > 7 {
		return fmt.Errorf("%w: day of week must be 1 (Monday) to 7 (Sunday)", apperr.ErrInvalidInput)
	}
	if slot.Opening >= slot.Closing {
		return fmt.Errorf("%w: opening must be before closing", apperr.ErrInvalidInput)
	}
	if _, err := s.fieldRepo.FindByID(ctx, slot.FieldID); err != nil {
		return fmt.Errorf("field %d: %w", slot.FieldID, err)
	}

	if _, err := s.slotRepo.FindByFieldAndDay(ctx, slot.FieldID, slot.DayOfWeek); err == nil {
		return fmt.Errorf("%w: field %d already has hours for day %d", apperr.ErrDuplicate, slot.FieldID, slot.DayOfWeek)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	slot.ID = 0
	if err := s.slotRepo.Create(ctx, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityWeeklySlots, models.ActionInsert,
		fmt.Sprintf("field %d day %d %s-%s", slot.FieldID, slot.DayOfWeek,
			models.ShortClock(slot.Opening), models.ShortClock(slot.Closing)),
		nil, slot)
	return nil
}

func (s *slotService) Delete(ctx context.Context, actor session.Actor, fieldID, slotID uint) error {
	slot, err := s.slotRepo.FindByID(ctx, slotID)
	if err != nil {
		return fmt.Errorf("slot %d: %w", slotID, err)
	}
	if slot.FieldID != fieldID {
		return fmt.Errorf("slot %d on field %d: %w", slotID, fieldID, apperr.ErrNotFound)
	}

	if err := s.slotRepo.Delete(ctx, slotID); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}

	record(ctx, s.recorder, actor, models.EntityWeeklySlots, models.ActionDelete,
		fmt.Sprintf("field %d day %d hours removed", slot.FieldID, slot.DayOfWeek), slot, nil)
	return nil
}
