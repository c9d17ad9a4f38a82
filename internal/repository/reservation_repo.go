package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"gorm.io/gorm"
)

type ReservationFilter struct {
	// Search matches the client's name or surname.
	Search   string
	FieldID  uint
	ClientID uint
	Status   models.ReservationStatus
	From     *time.Time
	To       *time.Time
	// ActiveOnly drops cancelled reservations.
	ActiveOnly bool
}

type ReservationRepository interface {
	Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error
	FindByID(ctx context.Context, id uint) (*models.Reservation, error)
	FindActiveByFieldAndDate(ctx context.Context, fieldID uint, date time.Time) ([]models.Reservation, error)
	FindAll(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error
	GetDB() *gorm.DB
}

type reservationRepository struct {
	db *gorm.DB
}

// NewReservationRepository binds the repository to db, which may be a transaction.
func NewReservationRepository(db *gorm.DB) ReservationRepository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *reservationRepository) Create(ctx context.Context, tx *gorm.DB, reservation *models.Reservation) error {
	return translate(tx.WithContext(ctx).Omit("Client", "Field").Create(reservation).Error)
}

func (r *reservationRepository) FindByID(ctx context.Context, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Field.FieldType").
		First(&reservation, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &reservation, nil
}

// FindActiveByFieldAndDate returns the non-cancelled reservations that can
// collide with a new booking on the given field and date.
func (r *reservationRepository) FindActiveByFieldAndDate(ctx context.Context, fieldID uint, date time.Time) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := r.db.WithContext(ctx).
		Where("field_id = ? AND date = ? AND status <> ?", fieldID, date, models.StatusCancelled).
		Order("start_time ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) FindAll(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	var reservations []models.Reservation
	q := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Preload("Client").
		Preload("Field.FieldType")

	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Joins("JOIN clients ON clients.id = reservations.client_id").
			Where("LOWER(clients.name) LIKE ? OR LOWER(clients.surname) LIKE ?", p, p)
	}
	if filter.FieldID != 0 {
		q = q.Where("reservations.field_id = ?", filter.FieldID)
	}
	if filter.ClientID != 0 {
		q = q.Where("reservations.client_id = ?", filter.ClientID)
	}
	if filter.Status != "" {
		q = q.Where("reservations.status = ?", filter.Status)
	}
	if filter.ActiveOnly {
		q = q.Where("reservations.status <> ?", models.StatusCancelled)
	}
	if filter.From != nil {
		q = q.Where("reservations.date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("reservations.date <= ?", *filter.To)
	}

	err := q.Order("reservations.date DESC, reservations.start_time ASC, reservations.id ASC").
		Find(&reservations).Error
	if err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ReservationStatus) error {
	res := tx.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}
