package get_available_slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC) // понедельник

func openDay(open, close types.TimeString) domain.DaySchedule {
	return domain.DaySchedule{IsOpen: true, OpenTime: open, CloseTime: close}
}

func configWith(step, notice, advance int) *domain.BusinessSlotsConfig {
	cfg := domain.DefaultSlotsConfig(1)
	cfg.SlotStepMinutes = step
	cfg.MinBookingNoticeMinutes = notice
	cfg.AdvanceBookingDays = advance
	return cfg
}

func staffAvailability(t *testing.T, staffID int64, day domain.DaySchedule, bookings ...*domain.Booking) domain.StaffAvailability {
	t.Helper()
	a, ok, err := domain.NewStaffAvailability(staffID, day, nil, bookings)
	require.NoError(t, err)
	require.True(t, ok)
	return a
}

func booking(staffID int64, start types.TimeString, duration int, status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		StaffID:         staffID,
		BookingDate:     testDay,
		StartTime:       start,
		DurationMinutes: duration,
		Status:          status,
	}
}

func slotMap(slots domain.SlotsByPeriod) map[types.TimeString]bool {
	m := make(map[types.TimeString]bool)
	for _, s := range slots.All() {
		m[s.Time] = s.Available
	}
	return m
}

func TestCalculateSlots_ExistingBookingBlocksOverlappingStarts(t *testing.T) {
	day := openDay("09:00", "17:00")

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-24 * time.Hour),
		config:          configWith(30, 60, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day, booking(1, "10:00", 60, domain.StatusConfirmed))},
		durationMinutes: 60,
	})
	require.NoError(t, err)

	m := slotMap(slots)
	assert.True(t, m["09:00"], "09:00-10:00 touches the booking but does not overlap")
	assert.False(t, m["09:30"], "09:30-10:30 overlaps 10:00-11:00")
	assert.False(t, m["10:00"])
	assert.False(t, m["10:30"])
	assert.True(t, m["11:00"])
	assert.Equal(t, 15, slots.Len(), "09:00..16:00 every 30 minutes")
	assert.Equal(t, 12, slots.Counts().Total())
}

func TestCalculateSlots_EmptyDayAllAvailable(t *testing.T) {
	day := openDay("09:00", "13:00")

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-24 * time.Hour),
		config:          configWith(30, 60, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day)},
		durationMinutes: 30,
	})
	require.NoError(t, err)

	all := slots.All()
	require.Len(t, all, 8)
	expected := []types.TimeString{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00", "12:30"}
	for i, s := range all {
		assert.Equal(t, expected[i], s.Time)
		assert.True(t, s.Available)
	}
	assert.Equal(t, "9:00 AM", all[0].Label)
	assert.Len(t, slots.Morning, 6)
	assert.Len(t, slots.Afternoon, 2)
	assert.Empty(t, slots.Evening)
	assert.Equal(t, 8, slots.Counts().Total())
}

func TestCalculateSlots_MinimumNoticeToday(t *testing.T) {
	day := openDay("09:00", "18:00")
	now := testDay.Add(16*time.Hour + 45*time.Minute)

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             now,
		config:          configWith(15, 60, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day)},
		durationMinutes: 15,
	})
	require.NoError(t, err)

	all := slots.All()
	require.NotEmpty(t, all)
	assert.Equal(t, types.TimeString("17:45"), all[0].Time)
	for _, s := range all {
		minute, err := s.Time.Minutes()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, minute, 17*60+45)
	}
}

func TestCalculateSlots_OutsideBookingWindowIsEmpty(t *testing.T) {
	day := openDay("09:00", "17:00")
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for _, date := range []time.Time{
		time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),  // вчера
		time.Date(2025, 3, 18, 0, 0, 0, 0, time.UTC), // за пределами 7 дней
	} {
		slots, err := calculateSlots(calculation{
			day:             date,
			now:             now,
			config:          configWith(30, 60, 7),
			businessDay:     day,
			staff:           []domain.StaffAvailability{staffAvailability(t, 1, day)},
			durationMinutes: 30,
		})
		require.NoError(t, err)
		assert.Zero(t, slots.Len(), date.Format(domain.DateFormat))
		assert.NotNil(t, slots.Morning)
	}
}

func TestCalculateSlots_SlotsEndBeforeClosing(t *testing.T) {
	day := openDay("09:00", "17:10")

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(20, 0, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day)},
		durationMinutes: 45,
		bufferMinutes:   30,
	})
	require.NoError(t, err)

	closeAt := 17*60 + 10
	for _, s := range slots.All() {
		minute, err := s.Time.Minutes()
		require.NoError(t, err)
		assert.LessOrEqual(t, minute+45, closeAt)
		assert.Equal(t, 0, (minute-9*60)%20, "aligned to opening time")
	}
	assert.Equal(t, types.TimeString("16:20"), slots.All()[slots.Len()-1].Time, "buffer may run past closing")
}

func TestCalculateSlots_ServiceBufferBlocksPrecedingSlot(t *testing.T) {
	day := openDay("09:00", "17:00")

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(30, 0, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day, booking(1, "10:00", 60, domain.StatusPending))},
		durationMinutes: 60,
		bufferMinutes:   15,
	})
	require.NoError(t, err)

	m := slotMap(slots)
	assert.False(t, m["09:00"], "09:00 + 60 + 15 reaches 10:15")
	assert.True(t, m["11:00"])
}

func TestCalculateSlots_InactiveBookingsDoNotBlock(t *testing.T) {
	day := openDay("09:00", "12:00")
	bookings := []*domain.Booking{
		booking(1, "10:00", 60, domain.StatusCancelled),
		booking(1, "11:00", 60, domain.StatusNoShow),
	}

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(60, 0, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day, bookings...)},
		durationMinutes: 60,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, slots.Counts().Total())
}

func TestCalculateSlots_AnyStaffIsOrOverStaff(t *testing.T) {
	businessDay := openDay("09:00", "17:00")
	afternoonOnly := openDay("13:00", "17:00")

	anna := staffAvailability(t, 1, businessDay, booking(1, "10:00", 60, domain.StatusConfirmed), booking(1, "14:00", 60, domain.StatusConfirmed))
	olga, ok, err := domain.NewStaffAvailability(2, businessDay, &afternoonOnly, []*domain.Booking{booking(2, "14:00", 60, domain.StatusConfirmed)})
	require.NoError(t, err)
	require.True(t, ok)

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(60, 0, 0),
		businessDay:     businessDay,
		staff:           []domain.StaffAvailability{anna, olga},
		durationMinutes: 60,
	})
	require.NoError(t, err)

	m := slotMap(slots)
	assert.False(t, m["10:00"], "only Anna works in the morning and she is booked")
	assert.True(t, m["13:00"], "both free")
	assert.False(t, m["14:00"], "both booked")
	assert.True(t, m["15:00"])
	assert.Equal(t, 8, slots.Len())
}

func TestCalculateSlots_ClosedDayOrNoStaffIsEmpty(t *testing.T) {
	closed := domain.DaySchedule{IsOpen: false}

	slots, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(30, 0, 0),
		businessDay:     closed,
		durationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Zero(t, slots.Len())

	slots, err = calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(30, 0, 0),
		businessDay:     openDay("09:00", "17:00"),
		durationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Zero(t, slots.Len())
}

func TestCalculateSlots_Idempotent(t *testing.T) {
	day := openDay("09:00", "17:00")
	c := calculation{
		day:             testDay,
		now:             testDay.Add(10 * time.Hour),
		config:          configWith(15, 30, 14),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day, booking(1, "13:00", 45, domain.StatusConfirmed))},
		durationMinutes: 45,
		bufferMinutes:   10,
	}

	first, err := calculateSlots(c)
	require.NoError(t, err)
	second, err := calculateSlots(c)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculateSlots_InvalidStep(t *testing.T) {
	day := openDay("09:00", "17:00")

	_, err := calculateSlots(calculation{
		day:             testDay,
		now:             testDay.Add(-time.Hour),
		config:          configWith(0, 0, 0),
		businessDay:     day,
		staff:           []domain.StaffAvailability{staffAvailability(t, 1, day)},
		durationMinutes: 30,
	})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
