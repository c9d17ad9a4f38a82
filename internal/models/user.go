package models

import "time"

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleOperator   Role = "booking_operator"
	RoleConsultant Role = "consultant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOperator, RoleConsultant:
		return true
	}
	return false
}

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"size:120;not null" json:"name"`
	Email        string     `gorm:"size:160;not null;uniqueIndex" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	Role         Role       `gorm:"type:varchar(20);not null" json:"role"`
	Active       bool       `gorm:"not null" json:"active"`
	LastAccessAt *time.Time `json:"last_access_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string { return EntityUsers }
