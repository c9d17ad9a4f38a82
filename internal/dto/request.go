package dto

import "github.com/Eursukkul/canchas-booking/internal/models"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterUserRequest struct {
	Name     string      `json:"name" validate:"required"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"required,min=8,max=72"`
	Role     models.Role `json:"role" validate:"required,oneof=admin booking_operator consultant"`
}

type CreateFieldTypeRequest struct {
	Name        string  `json:"name" validate:"required"`
	HourlyPrice float64 `json:"hourly_price" validate:"gte=0"`
}

type FieldRequest struct {
	Name        string `json:"name" validate:"required"`
	FieldTypeID uint   `json:"field_type_id" validate:"required,gt=0"`
	Location    string `json:"location"`
	MaxCapacity int    `json:"max_capacity" validate:"required,gt=0"`
	// Available defaults to true when omitted.
	Available *bool  `json:"available"`
	Notes     string `json:"notes"`
}

func (r FieldRequest) ToModel() *models.Field {
	available := true
	if r.Available != nil {
		available = *r.Available
	}
	return &models.Field{
		Name:        r.Name,
		FieldTypeID: r.FieldTypeID,
		Location:    r.Location,
		MaxCapacity: r.MaxCapacity,
		Available:   available,
		Notes:       r.Notes,
	}
}

type SlotRequest struct {
	DayOfWeek int    `json:"day_of_week" validate:"required,min=1,max=7"`
	Opening   string `json:"opening" validate:"required"`
	Closing   string `json:"closing" validate:"required"`
}

type ClientRequest struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Document string `json:"document" validate:"required"`
	Phone    string `json:"phone" validate:"omitempty,len=10,numeric"`
	// BirthDate is YYYY-MM-DD.
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	// Active defaults to true when omitted.
	Active *bool `json:"active"`
}

func (r ClientRequest) ToModel() (*models.Client, error) {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	c := &models.Client{
		Name:     r.Name,
		Surname:  r.Surname,
		Email:    r.Email,
		Document: r.Document,
		Phone:    r.Phone,
		Active:   active,
	}
	if r.BirthDate != "" {
		d, err := models.ParseDate(r.BirthDate)
		if err != nil {
			return nil, err
		}
		c.BirthDate = &d
	}
	return c, nil
}

type CreateReservationRequest struct {
	ClientID  uint                     `json:"client_id" validate:"required,gt=0"`
	FieldID   uint                     `json:"field_id" validate:"required,gt=0"`
	Date      string                   `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime string                   `json:"start_time" validate:"required"`
	EndTime   string                   `json:"end_time" validate:"required"`
	Status    models.ReservationStatus `json:"status" validate:"omitempty,oneof=pending confirmed"`
	Notes     string                   `json:"notes"`
}

type ChangeStatusRequest struct {
	Status models.ReservationStatus `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}
