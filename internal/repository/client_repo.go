package repository

import (
	"context"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"gorm.io/gorm"
)

type ClientFilter struct {
	// Search matches name, surname or document, case-insensitively.
	Search          string
	IncludeInactive bool
}

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	FindByID(ctx context.Context, id uint) (*models.Client, error)
	FindAll(ctx context.Context, filter ClientFilter) ([]models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uint) error
	EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error)
	DocumentTaken(ctx context.Context, document string, excludeID uint) (bool, error)
	HasReservations(ctx context.Context, id uint) (bool, error)
}

type clientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return translate(r.db.WithContext(ctx).Create(client).Error)
}

func (r *clientRepository) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	if err := r.db.WithContext(ctx).First(&client, id).Error; err != nil {
		return nil, translate(err)
	}
	return &client, nil
}

func (r *clientRepository) FindAll(ctx context.Context, filter ClientFilter) ([]models.Client, error) {
	var clients []models.Client
	q := r.db.WithContext(ctx)
	if !filter.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	if filter.Search != "" {
		p := likePattern(filter.Search)
		q = q.Where("LOWER(name) LIKE ? OR LOWER(surname) LIKE ? OR LOWER(document) LIKE ?", p, p, p)
	}
	if err := q.Order("surname ASC, name ASC, id ASC").Find(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return translate(r.db.WithContext(ctx).Omit("CreatedAt").Save(client).Error)
}

func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Client{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *clientRepository) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return r.taken(ctx, "LOWER(email) = LOWER(?)", email, excludeID)
}

func (r *clientRepository) DocumentTaken(ctx context.Context, document string, excludeID uint) (bool, error) {
	return r.taken(ctx, "document = ?", document, excludeID)
}

func (r *clientRepository) taken(ctx context.Context, cond, value string, excludeID uint) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Client{}).Where(cond, value)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *clientRepository) HasReservations(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("client_id = ?", id).
		Count(&count).Error
	return count > 0, err
}
