package models

import (
	"time"

	"gorm.io/datatypes"
)

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "pending"
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
	StatusCompleted ReservationStatus = "completed"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether a reservation in this status occupies its slot.
func (s ReservationStatus) Active() bool {
	return s != StatusCancelled
}

// CanTransitionTo only allows forward moves; completed and cancelled are final.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCompleted || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

type Reservation struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	ClientID    uint              `gorm:"not null;index" json:"client_id"`
	FieldID     uint              `gorm:"not null;index:idx_reservation_field_date" json:"field_id"`
	Date        time.Time         `gorm:"type:date;not null;index:idx_reservation_field_date" json:"date"`
	StartTime   datatypes.Time    `gorm:"not null" json:"start_time"`
	EndTime     datatypes.Time    `gorm:"not null" json:"end_time"`
	Status      ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TotalAmount float64           `gorm:"not null" json:"total_amount"`
	Notes       string            `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`

	Client *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Field  *Field  `gorm:"foreignKey:FieldID" json:"field,omitempty"`
}

func (Reservation) TableName() string { return EntityReservations }

// Hours is the fractional duration of the reservation.
func (r *Reservation) Hours() float64 {
	return DurationHours(r.StartTime, r.EndTime)
}
