package repository

import (
	"context"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const defaultAuditLimit = 500

type AuditFilter struct {
	Actor  string
	Entity string
	Action models.AuditAction
	From   time.Time
	To     time.Time
	Limit  int
}

// AuditRepository only appends and reads; entries are never changed.
type AuditRepository interface {
	Create(ctx context.Context, entry *models.AuditEntry) error
	// Upsert inserts entry unless its UID is already stored, so redelivered
	// retries are harmless.
	Upsert(ctx context.Context, entry *models.AuditEntry) (bool, error)
	Find(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *models.AuditEntry) error {
	return translate(r.db.WithContext(ctx).Create(entry).Error)
}

func (r *auditRepository) Upsert(ctx context.Context, entry *models.AuditEntry) (bool, error) {
	entry.ID = 0
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *auditRepository) Find(ctx context.Context, filter AuditFilter) ([]models.AuditEntry, error) {
	var entries []models.AuditEntry
	q := r.db.WithContext(ctx)
	if filter.Actor != "" {
		q = q.Where("actor = ?", filter.Actor)
	}
	if filter.Entity != "" {
		q = q.Where("entity = ?", filter.Entity)
	}
	if filter.Action != "" {
		q = q.Where("action = ?", filter.Action)
	}
	if !filter.From.IsZero() {
		q = q.Where("created_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("created_at < ?", filter.To)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultAuditLimit
	}

	err := q.Order("created_at DESC, id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
