package repository

import (
	"context"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FieldTypeRepository interface {
	Create(ctx context.Context, ft *models.FieldType) error
	FindByID(ctx context.Context, id uint) (*models.FieldType, error)
	FindAll(ctx context.Context) ([]models.FieldType, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type fieldTypeRepository struct {
	db *gorm.DB
}

func NewFieldTypeRepository(db *gorm.DB) FieldTypeRepository {
	return &fieldTypeRepository{db: db}
}

func (r *fieldTypeRepository) Create(ctx context.Context, ft *models.FieldType) error {
	return translate(r.db.WithContext(ctx).Create(ft).Error)
}

func (r *fieldTypeRepository) FindByID(ctx context.Context, id uint) (*models.FieldType, error) {
	var ft models.FieldType
	if err := r.db.WithContext(ctx).First(&ft, id).Error; err != nil {
		return nil, translate(err)
	}
	return &ft, nil
}

func (r *fieldTypeRepository) FindAll(ctx context.Context) ([]models.FieldType, error) {
	var types []models.FieldType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *fieldTypeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.FieldType{}).
		Where("LOWER(name) = LOWER(?)", name).
		Count(&count).Error
	return count > 0, err
}

type FieldRepository interface {
	Create(ctx context.Context, field *models.Field) error
	FindByID(ctx context.Context, id uint) (*models.Field, error)
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Field, error)
	FindAll(ctx context.Context, onlyAvailable bool) ([]models.Field, error)
	Update(ctx context.Context, field *models.Field) error
	Delete(ctx context.Context, id uint) error
	HasReservations(ctx context.Context, id uint) (bool, error)
	GetDB() *gorm.DB
}

type fieldRepository struct {
	db *gorm.DB
}

// NewFieldRepository binds the repository to db, which may be a transaction.
func NewFieldRepository(db *gorm.DB) FieldRepository {
	return &fieldRepository{db: db}
}

func (r *fieldRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *fieldRepository) Create(ctx context.Context, field *models.Field) error {
	if err := r.db.WithContext(ctx).Omit("FieldType").Create(field).Error; err != nil {
		return translate(err)
	}
	return nil
}

func (r *fieldRepository) FindByID(ctx context.Context, id uint) (*models.Field, error) {
	var field models.Field
	if err := r.db.WithContext(ctx).Preload("FieldType").First(&field, id).Error; err != nil {
		return nil, translate(err)
	}
	return &field, nil
}

// FindByIDForUpdate locks the field row so concurrent reservation inserts
// for the same field run one after another.
func (r *fieldRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id uint) (*models.Field, error) {
	var field models.Field
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&field, id).Error; err != nil {
		return nil, translate(err)
	}
	return &field, nil
}

func (r *fieldRepository) FindAll(ctx context.Context, onlyAvailable bool) ([]models.Field, error) {
	var fields []models.Field
	q := r.db.WithContext(ctx).Preload("FieldType")
	if onlyAvailable {
		q = q.Where("available = ?", true)
	}
	if err := q.Order("name ASC, id ASC").Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *fieldRepository) Update(ctx context.Context, field *models.Field) error {
	return translate(r.db.WithContext(ctx).Omit("FieldType", "CreatedAt").Save(field).Error)
}

func (r *fieldRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("field_id = ?", id).Delete(&models.WeeklySlot{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Field{}, id)
		if res.Error != nil {
			return translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound)
		}
		return nil
	})
}

func (r *fieldRepository) HasReservations(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("field_id = ?", id).
		Count(&count).Error
	return count > 0, err
}

type WeeklySlotRepository interface {
	Create(ctx context.Context, slot *models.WeeklySlot) error
	FindByID(ctx context.Context, id uint) (*models.WeeklySlot, error)
	FindByFieldAndDay(ctx context.Context, fieldID uint, dayOfWeek int) (*models.WeeklySlot, error)
	FindByField(ctx context.Context, fieldID uint) ([]models.WeeklySlot, error)
	Delete(ctx context.Context, id uint) error
}

type weeklySlotRepository struct {
	db *gorm.DB
}

func NewWeeklySlotRepository(db *gorm.DB) WeeklySlotRepository {
	return &weeklySlotRepository{db: db}
}

func (r *weeklySlotRepository) Create(ctx context.Context, slot *models.WeeklySlot) error {
	return translate(r.db.WithContext(ctx).Create(slot).Error)
}

func (r *weeklySlotRepository) FindByID(ctx context.Context, id uint) (*models.WeeklySlot, error) {
	var slot models.WeeklySlot
	if err := r.db.WithContext(ctx).First(&slot, id).Error; err != nil {
		return nil, translate(err)
	}
	return &slot, nil
}

func (r *weeklySlotRepository) FindByFieldAndDay(ctx context.Context, fieldID uint, dayOfWeek int) (*models.WeeklySlot, error) {
	var slot models.WeeklySlot
	err := r.db.WithContext(ctx).
		Where("field_id = ? AND day_of_week = ?", fieldID, dayOfWeek).
		First(&slot).Error
	if err != nil {
		return nil, translate(err)
	}
	return &slot, nil
}

func (r *weeklySlotRepository) FindByField(ctx context.Context, fieldID uint) ([]models.WeeklySlot, error) {
	var slots []models.WeeklySlot
	err := r.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("day_of_week ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *weeklySlotRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.WeeklySlot{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
