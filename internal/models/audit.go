package models

import (
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EntityFieldTypes   = "field_types"
	EntityFields       = "fields"
	EntityWeeklySlots  = "weekly_slots"
	EntityClients      = "clients"
	EntityReservations = "reservations"
	EntityUsers        = "users"
	EntityAuditLog     = "audit_log"
)

// ActorSystem is recorded when no authenticated user triggered the change.
const ActorSystem = "system"

type AuditAction string

const (
	ActionInsert AuditAction = "INSERT"
	ActionUpdate AuditAction = "UPDATE"
	ActionDelete AuditAction = "DELETE"
	ActionLogin  AuditAction = "LOGIN"
	ActionLogout AuditAction = "LOGOUT"
)

func (a AuditAction) Valid() bool {
	switch a {
	case ActionInsert, ActionUpdate, ActionDelete, ActionLogin, ActionLogout:
		return true
	}
	return false
}

type AuditEntry struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	UID         string      `gorm:"type:uuid;not null;uniqueIndex" json:"uid"`
	Actor       string      `gorm:"size:160;not null;index" json:"actor"`
	Entity      string      `gorm:"size:64;not null;index" json:"entity"`
	Action      AuditAction `gorm:"type:varchar(10);not null;index" json:"action"`
	Description string      `gorm:"type:text" json:"description"`
	Before      Snapshot    `json:"before,omitempty"`
	After       Snapshot    `json:"after,omitempty"`
	CreatedAt   time.Time   `gorm:"not null;index" json:"created_at"`
}

func (AuditEntry) TableName() string { return EntityAuditLog }

func (e *AuditEntry) BeforeCreate(tx *gorm.DB) error {
	if e.UID == "" {
		e.UID = uuid.NewString()
	}
	return nil
}

func (e *AuditEntry) BeforeUpdate(tx *gorm.DB) error {
	return apperr.ErrImmutable
}

func (e *AuditEntry) BeforeDelete(tx *gorm.DB) error {
	return apperr.ErrImmutable
}
