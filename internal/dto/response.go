package dto

import (
	"time"

	"github.com/Eursukkul/canchas-booking/internal/models"
)

type ErrorResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID           uint        `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Role         models.Role `json:"role"`
	Active       bool        `json:"active"`
	LastAccessAt *time.Time  `json:"last_access_at,omitempty"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Role:         u.Role,
		Active:       u.Active,
		LastAccessAt: u.LastAccessAt,
	}
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type ClientResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Surname   string `json:"surname"`
	Email     string `json:"email"`
	Document  string `json:"document"`
	Phone     string `json:"phone"`
	BirthDate string `json:"birth_date,omitempty"`
	Active    bool   `json:"active"`
}

func ToClientResponse(c *models.Client) ClientResponse {
	resp := ClientResponse{
		ID:       c.ID,
		Name:     c.Name,
		Surname:  c.Surname,
		Email:    c.Email,
		Document: c.Document,
		Phone:    c.Phone,
		Active:   c.Active,
	}
	if c.BirthDate != nil {
		resp.BirthDate = c.BirthDate.Format(models.DateLayout)
	}
	return resp
}

type SlotResponse struct {
	ID        uint   `json:"id"`
	FieldID   uint   `json:"field_id"`
	DayOfWeek int    `json:"day_of_week"`
	Opening   string `json:"opening"`
	Closing   string `json:"closing"`
}

func ToSlotResponse(s *models.WeeklySlot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		FieldID:   s.FieldID,
		DayOfWeek: s.DayOfWeek,
		Opening:   s.Opening.String(),
		Closing:   s.Closing.String(),
	}
}

type ReservationResponse struct {
	ID          uint                     `json:"id"`
	ClientID    uint                     `json:"client_id"`
	ClientName  string                   `json:"client_name,omitempty"`
	FieldID     uint                     `json:"field_id"`
	FieldName   string                   `json:"field_name,omitempty"`
	Date        string                   `json:"date"`
	StartTime   string                   `json:"start_time"`
	EndTime     string                   `json:"end_time"`
	Status      models.ReservationStatus `json:"status"`
	TotalAmount float64                  `json:"total_amount"`
	Notes       string                   `json:"notes,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
}

func ToReservationResponse(r *models.Reservation) ReservationResponse {
	resp := ReservationResponse{
		ID:          r.ID,
		ClientID:    r.ClientID,
		FieldID:     r.FieldID,
		Date:        r.Date.Format(models.DateLayout),
		StartTime:   r.StartTime.String(),
		EndTime:     r.EndTime.String(),
		Status:      r.Status,
		TotalAmount: r.TotalAmount,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
	}
	if r.Client != nil {
		resp.ClientName = r.Client.FullName()
	}
	if r.Field != nil {
		resp.FieldName = r.Field.Name
	}
	return resp
}

type AvailabilityResponse struct {
	FieldID   uint    `json:"field_id"`
	Date      string  `json:"date"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason,omitempty"`
	Amount    float64 `json:"amount"`
}
