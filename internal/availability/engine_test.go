package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Eursukkul/canchas-booking/internal/apperr"
	"github.com/Eursukkul/canchas-booking/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// --- Fakes ---

type fakeFields map[uint]*models.Field

func (f fakeFields) FindByID(ctx context.Context, id uint) (*models.Field, error) {
	field, ok := f[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	return field, nil
}

type fakeSlots []models.WeeklySlot

func (f fakeSlots) FindByFieldAndDay(ctx context.Context, fieldID uint, day int) (*models.WeeklySlot, error) {
	for i := range f {
		if f[i].FieldID == fieldID && f[i].DayOfWeek == day {
			return &f[i], nil
		}
	}
	return nil, apperr.ErrNotFound
}

type fakeReservations struct {
	rows []models.Reservation
	err  error
}

func (f *fakeReservations) FindActiveByFieldAndDate(ctx context.Context, fieldID uint, date time.Time) ([]models.Reservation, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Reservation
	for _, r := range f.rows {
		if r.FieldID == fieldID && r.Date.Equal(date) && r.Status != models.StatusCancelled {
			out = append(out, r)
		}
	}
	return out, nil
}

// --- Fixtures ---

func clock(h, m int) datatypes.Time {
	return datatypes.NewTime(h, m, 0, 0)
}

var monday = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// courtA: Monday 07:00-22:00, confirmed booking 10:00-11:00 on 2024-01-01.
func courtA(extra ...models.Reservation) (Engine, *fakeReservations) {
	fields := fakeFields{
		1: {ID: 1, Name: "Court A", FieldType: &models.FieldType{Name: "Futbol 5", HourlyPrice: 20}},
	}
	slots := fakeSlots{
		{FieldID: 1, DayOfWeek: 1, Opening: clock(7, 0), Closing: clock(22, 0)},
	}
	res := &fakeReservations{rows: append([]models.Reservation{
		{ID: 10, FieldID: 1, Date: monday, StartTime: clock(10, 0), EndTime: clock(11, 0), Status: models.StatusConfirmed},
	}, extra...)}
	return NewEngine(fields, slots, res), res
}

func query(start, end datatypes.Time) Query {
	return Query{FieldID: 1, Date: monday, Start: start, End: end}
}

// --- Tests ---

func TestCheckAvailability_OverlapsExisting(t *testing.T) {
	eng, _ := courtA()

	res, err := eng.CheckAvailability(context.Background(), query(clock(10, 30), clock(11, 30)))

	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, "overlaps existing reservation 10:00–11:00", res.Reason)
}

func TestCheckAvailability_BackToBack(t *testing.T) {
	eng, _ := courtA()

	after, err := eng.CheckAvailability(context.Background(), query(clock(11, 0), clock(12, 0)))
	require.NoError(t, err)
	assert.True(t, after.Available)

	before, err := eng.CheckAvailability(context.Background(), query(clock(9, 0), clock(10, 0)))
	require.NoError(t, err)
	assert.True(t, before.Available)
}

func TestCheckAvailability_ContainedAndContaining(t *testing.T) {
	eng, _ := courtA()

	inner, err := eng.CheckAvailability(context.Background(), query(clock(10, 15), clock(10, 45)))
	require.NoError(t, err)
	assert.False(t, inner.Available)

	outer, err := eng.CheckAvailability(context.Background(), query(clock(9, 0), clock(12, 0)))
	require.NoError(t, err)
	assert.False(t, outer.Available)
}

func TestCheckAvailability_CancelledDoesNotBlock(t *testing.T) {
	eng, res := courtA()
	res.rows[0].Status = models.StatusCancelled

	got, err := eng.CheckAvailability(context.Background(), query(clock(10, 0), clock(11, 0)))

	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestCheckAvailability_OtherDateDoesNotBlock(t *testing.T) {
	eng, _ := courtA()
	q := query(clock(10, 0), clock(11, 0))
	q.Date = monday.AddDate(0, 0, 7)

	got, err := eng.CheckAvailability(context.Background(), q)

	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestCheckAvailability_OutsideOperatingHours(t *testing.T) {
	eng, _ := courtA()

	cases := []struct {
		name       string
		start, end datatypes.Time
	}{
		{"starts before opening", clock(6, 30), clock(8, 0)},
		{"ends after closing", clock(21, 0), clock(22, 30)},
		{"spans the whole day", clock(6, 0), clock(23, 0)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := eng.CheckAvailability(context.Background(), query(tc.start, tc.end))
			require.NoError(t, err)
			assert.False(t, res.Available)
			assert.Equal(t, "requested interval outside operating hours 07:00–22:00", res.Reason)
		})
	}
}

func TestCheckAvailability_ExactlyOperatingWindow(t *testing.T) {
	eng, res := courtA()
	res.rows = nil

	got, err := eng.CheckAvailability(context.Background(), query(clock(7, 0), clock(22, 0)))

	require.NoError(t, err)
	assert.True(t, got.Available)
}

func TestCheckAvailability_NoSlotForDay(t *testing.T) {
	eng, _ := courtA()
	q := query(clock(10, 0), clock(11, 0))
	q.Date = monday.AddDate(0, 0, 1) // Tuesday

	res, err := eng.CheckAvailability(context.Background(), q)

	require.NoError(t, err)
	assert.False(t, res.Available)
	assert.Equal(t, ReasonNoOperatingHours, res.Reason)
}

func TestCheckAvailability_FieldNotFound(t *testing.T) {
	eng, _ := courtA()
	q := query(clock(10, 0), clock(11, 0))
	q.FieldID = 99

	_, err := eng.CheckAvailability(context.Background(), q)

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCheckAvailability_InvalidRange(t *testing.T) {
	eng, _ := courtA()

	_, err := eng.CheckAvailability(context.Background(), query(clock(11, 0), clock(11, 0)))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = eng.CheckAvailability(context.Background(), query(clock(12, 0), clock(11, 0)))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestCheckAvailability_StoreError(t *testing.T) {
	eng, res := courtA()
	res.err = errors.New("connection reset")

	_, err := eng.CheckAvailability(context.Background(), query(clock(12, 0), clock(13, 0)))

	assert.EqualError(t, err, "connection reset")
}

func TestComputeAmount(t *testing.T) {
	eng, _ := courtA()

	amount, err := eng.ComputeAmount(context.Background(), 1, clock(9, 0), clock(11, 30))

	require.NoError(t, err)
	assert.Equal(t, 50.0, amount)
}

func TestComputeAmount_Errors(t *testing.T) {
	eng, _ := courtA()

	_, err := eng.ComputeAmount(context.Background(), 99, clock(9, 0), clock(10, 0))
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = eng.ComputeAmount(context.Background(), 1, clock(10, 0), clock(9, 0))
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(clock(9, 0), clock(10, 1), clock(10, 0), clock(11, 0)))
	assert.False(t, Overlaps(clock(9, 0), clock(10, 0), clock(10, 0), clock(11, 0)))
	assert.False(t, Overlaps(clock(11, 0), clock(12, 0), clock(10, 0), clock(11, 0)))
}
