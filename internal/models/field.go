package models

import (
	"time"

	"gorm.io/datatypes"
)

type FieldType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:80;not null;uniqueIndex" json:"name"`
	HourlyPrice float64   `gorm:"not null" json:"hourly_price"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (FieldType) TableName() string { return EntityFieldTypes }

type Field struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:120;not null" json:"name"`
	FieldTypeID uint      `gorm:"not null;index" json:"field_type_id"`
	Location    string    `json:"location"`
	MaxCapacity int       `gorm:"not null" json:"max_capacity"`
	Available   bool      `gorm:"not null" json:"available"`
	Notes       string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	FieldType *FieldType `gorm:"foreignKey:FieldTypeID" json:"field_type,omitempty"`
}

func (Field) TableName() string { return EntityFields }

// WeeklySlot is the recurring operating window of a field on one weekday.
// DayOfWeek follows ISO numbering: 1 = Monday … 7 = Sunday.
type WeeklySlot struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	FieldID   uint           `gorm:"not null;uniqueIndex:idx_weekly_slot_field_day" json:"field_id"`
	DayOfWeek int            `gorm:"not null;uniqueIndex:idx_weekly_slot_field_day" json:"day_of_week"`
	Opening   datatypes.Time `gorm:"not null" json:"opening"`
	Closing   datatypes.Time `gorm:"not null" json:"closing"`
	CreatedAt time.Time      `json:"created_at"`
}

func (WeeklySlot) TableName() string { return EntityWeeklySlots }

// ISOWeekday maps a date to 1 = Monday … 7 = Sunday.
func ISOWeekday(d time.Time) int {
	wd := int(d.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
