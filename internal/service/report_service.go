package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/Eursukkul/canchas-booking/internal/repository"
)

const (
	topClientsLimit = 10
	// A client with more reservations than this in the range counts as frequent.
	frequentClientThreshold = 3
)

type FieldUsage struct {
	FieldID      uint    `json:"field_id"`
	FieldName    string  `json:"field_name"`
	FieldType    string  `json:"field_type"`
	Reservations int     `json:"reservations"`
	Hours        float64 `json:"hours"`
	Revenue      float64 `json:"revenue"`
}

type RevenueSummary struct {
	TotalRevenue          float64 `json:"total_revenue"`
	Reservations          int     `json:"reservations"`
	AveragePerReservation float64 `json:"average_per_reservation"`
}

type DailyRevenue struct {
	Date         string  `json:"date"`
	Reservations int     `json:"reservations"`
	Revenue      float64 `json:"revenue"`
}

type ClientStat struct {
	ClientID     uint    `json:"client_id"`
	ClientName   string  `json:"client_name"`
	Reservations int     `json:"reservations"`
	Spent        float64 `json:"spent"`
}

type ClientLoyalty struct {
	TopByReservations []ClientStat `json:"top_by_reservations"`
	TopBySpend        []ClientStat `json:"top_by_spend"`
	UniqueClients     int          `json:"unique_clients"`
	FrequentClients   int          `json:"frequent_clients"`
	// RetentionRate is the percentage of unique clients that are frequent.
	RetentionRate float64 `json:"retention_rate"`
}

// ReportService aggregates non-cancelled reservations whose date falls in
// [from, to]; nil bounds are open.
type ReportService interface {
	FieldUsage(ctx context.Context, from, to *time.Time) ([]FieldUsage, error)
	Summary(ctx context.Context, from, to *time.Time) (*RevenueSummary, error)
	DailyRevenue(ctx context.Context, from, to *time.Time) ([]DailyRevenue, error)
	ClientLoyalty(ctx context.Context, from, to *time.Time) (*ClientLoyalty, error)
}

type reportService struct {
	fieldRepo       repository.FieldRepository
	reservationRepo repository.ReservationRepository
}

func NewReportService(fieldRepo repository.FieldRepository, reservationRepo repository.ReservationRepository) ReportService {
	return &reportService{fieldRepo: fieldRepo, reservationRepo: reservationRepo}
}

func (s *reportService) activeReservations(ctx context.Context, from, to *time.Time) ([]models.Reservation, error) {
	if from != nil && to != nil && to.Before(*from) {
		return nil, fmt.Errorf("%w: to must not be before from", apperr.ErrInvalidInput)
	}
	return s.reservationRepo.FindAll(ctx, repository.ReservationFilter{
		From:       from,
		To:         to,
		ActiveOnly: true,
	})
}

// FieldUsage lists every field, those without bookings with zeros.
func (s *reportService) FieldUsage(ctx context.Context, from, to *time.Time) ([]FieldUsage, error) {
	reservations, err := s.activeReservations(ctx, from, to)
	if err != nil {
		return nil, err
	}
	fields, err := s.fieldRepo.FindAll(ctx, false)
	if err != nil {
		return nil, err
	}

	usage := make([]FieldUsage, len(fields))
	index := make(map[uint]int, len(fields))
	for i, f := range fields {
		usage[i] = FieldUsage{FieldID: f.ID, FieldName: f.Name}
		if f.FieldType != nil {
			usage[i].FieldType = f.FieldType.Name
		}
		index[f.ID] = i
	}

	for i := range reservations {
		r := &reservations[i]
		j, ok := index[r.FieldID]
		if !ok {
			continue
		}
		usage[j].Reservations++
		usage[j].Hours += r.Hours()
		usage[j].Revenue += r.TotalAmount
	}

	return usage, nil
}


func (s *reportService) Summary(ctx context.Context, from, to *time.Time) (*RevenueSummary, error) {
	reservations, err := s.activeReservations(ctx, from, to)
	if err != nil {
		return nil, err
	}

	summary := &RevenueSummary{Reservations: len(reservations)}
	for i := range reservations {
		summary.TotalRevenue += reservations[i].TotalAmount
	}
	if summary.Reservations > 0 {
		summary.AveragePerReservation = summary.TotalRevenue / float64(summary.Reservations)
	}
	return summary, nil
}

// DailyRevenue returns one point per booked date, oldest first.
func (s *reportService) DailyRevenue(ctx context.Context, from, to *time.Time) ([]DailyRevenue, error) {
	reservations, err := s.activeReservations(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byDate := make(map[string]*DailyRevenue)
	for i := range reservations {
		r := &reservations[i]
		day := r.Date.Format(models.DateLayout)
		point, ok := byDate[day]
		if !ok {
			point = &DailyRevenue{Date: day}
			byDate[day] = point
		}
		point.Reservations++
		point.Revenue += r.TotalAmount
	}

	series := make([]DailyRevenue, 0, len(byDate))
	for _, point := range byDate {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Date < series[j].Date })
	return series, nil
}

// ClientLoyalty ranks clients by reservation count and by spend, and counts
// frequent clients over all clients in the range, not only the top ten.
func (s *reportService) ClientLoyalty(ctx context.Context, from, to *time.Time) (*ClientLoyalty, error) {
	reservations, err := s.activeReservations(ctx, from, to)
	if err != nil {
		return nil, err
	}

	byClient := make(map[uint]*ClientStat)
	for i := range reservations {
		r := &reservations[i]
		stat, ok := byClient[r.ClientID]
		if !ok {
			stat = &ClientStat{ClientID: r.ClientID}
			if r.Client != nil {
				stat.ClientName = r.Client.FullName()
			}
			byClient[r.ClientID] = stat
		}
		stat.Reservations++
		stat.Spent += r.TotalAmount
	}

	stats := make([]ClientStat, 0, len(byClient))
	loyalty := &ClientLoyalty{UniqueClients: len(byClient)}
	for _, stat := range byClient {
		stats = append(stats, *stat)
		if stat.Reservations > frequentClientThreshold {
			loyalty.FrequentClients++
		}
	}
	if loyalty.UniqueClients > 0 {
		loyalty.RetentionRate = float64(loyalty.FrequentClients) / float64(loyalty.UniqueClients) * 100
	}

	loyalty.TopByReservations = topClients(stats, func(a, b ClientStat) bool {
		return a.Reservations > b.Reservations
	})
	loyalty.TopBySpend = topClients(stats, func(a, b ClientStat) bool {
		return a.Spent > b.Spent
	})
	return loyalty, nil
}

// topClients sorts a copy by less, breaking ties by client id.
func topClients(stats []ClientStat, less func(a, b ClientStat) bool) []ClientStat {
	ranked := make([]ClientStat, len(stats))
	copy(ranked, stats)
	sort.Slice(ranked, func(i, j int) bool {
		if less(ranked[i], ranked[j]) {
			return true
		}
		if less(ranked[j], ranked[i]) {
			return false
		}
		return ranked[i].ClientID < ranked[j].ClientID
	})
	if len(ranked) > topClientsLimit {
		ranked = ranked[:topClientsLimit]
	}
	return ranked
}
