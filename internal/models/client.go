package models

import "time"

type Client struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:80;not null" json:"name"`
	Surname   string     `gorm:"size:80;not null" json:"surname"`
	Email     string     `gorm:"size:160;not null;uniqueIndex" json:"email"`
	Document  string     `gorm:"size:40;not null;uniqueIndex" json:"document"`
	Phone     string     `gorm:"size:20" json:"phone"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Active    bool       `gorm:"not null" json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Client) TableName() string { return EntityClients }

func (c *Client) FullName() string {
	return c.Name + " " + c.Surname
}
