package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	configRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/config"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type fakeBusinessClient struct {
	business    *businessservice.Business
	service     *businessservice.Service
	businessErr error
	serviceErr  error
}

func (f *fakeBusinessClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.businessErr != nil {
		return nil, f.businessErr
	}
	return f.business, nil
}

func (f *fakeBusinessClient) GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

type fakeBookingRepo struct {
	bookings []*domain.Booking
	filters  []domain.BookingsFilter
	err      error
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

type fakeConfigRepo struct {
	config *domain.BusinessSlotsConfig
	err    error
}

func (f *fakeConfigRepo) GetConfigWithHierarchy(ctx context.Context, businessID int64, staffID, serviceID *int64) (*domain.BusinessSlotsConfig, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.config, nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type slotsMetrics struct{ available, unavailable int }

func (m *slotsMetrics) ObserveSlots(available, unavailable int) {
	m.available += available
	m.unavailable += unavailable
}

func day(open, close string) businessservice.DaySchedule {
	return businessservice.DaySchedule{IsOpen: true, OpenTime: ptr.Ptr(open), CloseTime: ptr.Ptr(close)}
}

func testBusiness() *businessservice.Business {
	weekday := day("09:00", "17:00")
	return &businessservice.Business{
		ID:       1,
		Name:     "Salon",
		Timezone: "UTC",
		WorkingHours: businessservice.WorkingHours{
			Monday: weekday, Tuesday: weekday, Wednesday: weekday, Thursday: weekday, Friday: weekday,
		},
		Staff: []businessservice.Staff{
			{ID: 1, Name: "Anna", Active: true},
			{ID: 2, Name: "Olga", Active: true},
			{ID: 3, Name: "Irina", Active: false},
		},
		ManagerIDs: []int64{100},
	}
}

func testService() *businessservice.Service {
	return &businessservice.Service{ID: 10, BusinessID: 1, Name: "Haircut", Price: 1500, DurationMinutes: 60, StaffIDs: []int64{1, 2}}
}

func newTestUseCase(client *fakeBusinessClient, bookings *fakeBookingRepo, configs *fakeConfigRepo, now time.Time) (*UseCase, *slotsMetrics) {
	m := &slotsMetrics{}
	uc := NewUseCase(bookings, configs, client, m, nopLogger{})
	uc.timeProvider = fixedTime{now: now}
	return uc, m
}

var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestExecute_SpecificStaff(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, StaffID: 1, BookingDate: monday, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}}
	configs := &fakeConfigRepo{err: configRepo.ErrConfigNotFound}
	uc, m := newTestUseCase(&fakeBusinessClient{business: testBusiness(), service: testService()}, bookings, configs, monday.Add(-time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StaffID: ptr.Ptr(int64(1)), Date: monday})
	require.NoError(t, err)

	assert.Equal(t, 15, resp.Slots.Len())
	assert.Equal(t, 12, resp.TotalAvailable)
	assert.Equal(t, resp.Counts.Total(), resp.TotalAvailable)
	assert.Equal(t, 12, m.available)
	assert.Equal(t, 3, m.unavailable)

	require.Len(t, bookings.filters, 1)
	assert.Equal(t, []int64{1}, bookings.filters[0].StaffIDs)
	assert.False(t, bookings.filters[0].IncludeInactive)
}

func TestExecute_AnyStaffUsesEligibleActiveStaff(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, StaffID: 1, BookingDate: monday, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}}
	uc, _ := newTestUseCase(&fakeBusinessClient{business: testBusiness(), service: testService()}, bookings,
		&fakeConfigRepo{config: &domain.BusinessSlotsConfig{ID: 4, SlotStepMinutes: 60, MorningEndsAt: "12:00", AfternoonEndsAt: "17:00"}},
		monday.Add(-time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)

	assert.Nil(t, resp.StaffID)
	assert.Equal(t, 8, resp.TotalAvailable, "Olga is free at 10:00")
	assert.ElementsMatch(t, []int64{1, 2}, bookings.filters[0].StaffIDs)
}

func TestExecute_EmptyResults(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		now  time.Time
		cfg  *domain.BusinessSlotsConfig
	}{
		{
			name: "date in the past",
			date: monday,
			now:  monday.AddDate(0, 0, 1),
		},
		{
			name: "beyond advance booking window",
			date: monday.AddDate(0, 0, 10),
			now:  monday,
			cfg:  &domain.BusinessSlotsConfig{ID: 1, SlotStepMinutes: 30, AdvanceBookingDays: 7},
		},
		{
			name: "closed on sunday",
			date: time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC),
			now:  monday,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configs := &fakeConfigRepo{config: tt.cfg}
			if tt.cfg == nil {
				configs.err = configRepo.ErrConfigNotFound
			}
			uc, _ := newTestUseCase(&fakeBusinessClient{business: testBusiness(), service: testService()}, &fakeBookingRepo{}, configs, tt.now)

			resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: tt.date})
			require.NoError(t, err)
			assert.Zero(t, resp.TotalAvailable)
			assert.Zero(t, resp.Slots.Len())
		})
	}
}

func TestExecute_BusinessTimezoneDefinesToday(t *testing.T) {
	business := testBusiness()
	business.Timezone = "Asia/Tokyo"
	// 2025-03-10 20:00 UTC = 2025-03-11 05:00 в Токио: 10 марта уже прошло
	now := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	uc, _ := newTestUseCase(&fakeBusinessClient{business: business, service: testService()}, &fakeBookingRepo{},
		&fakeConfigRepo{err: configRepo.ErrConfigNotFound}, now)

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	require.NoError(t, err)
	assert.Zero(t, resp.Slots.Len())

	resp, err = uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday.AddDate(0, 0, 1)})
	require.NoError(t, err)
	assert.Equal(t, 15, resp.TotalAvailable, "09:00..16:00 every 30 minutes Tokyo time")
	assert.Equal(t, "Asia/Tokyo", resp.Date.Location().String())
}

func TestExecute_Errors(t *testing.T) {
	inactive := ptr.Ptr(int64(3))
	unknown := ptr.Ptr(int64(42))

	notOffered := testService()
	notOffered.StaffIDs = []int64{2}

	zeroDuration := testService()
	zeroDuration.DurationMinutes = 0

	badTimezone := testBusiness()
	badTimezone.Timezone = "Mars/Olympus"

	tests := []struct {
		name    string
		client  *fakeBusinessClient
		req     *Request
		wantErr error
	}{
		{
			name:    "business not found",
			client:  &fakeBusinessClient{businessErr: businessservice.ErrBusinessNotFound, service: testService()},
			req:     &Request{BusinessID: 1, ServiceID: 10, Date: monday},
			wantErr: ErrBusinessNotFound,
		},
		{
			name:    "service not found",
			client:  &fakeBusinessClient{business: testBusiness(), serviceErr: businessservice.ErrServiceNotFound},
			req:     &Request{BusinessID: 1, ServiceID: 10, Date: monday},
			wantErr: ErrServiceNotFound,
		},
		{
			name:    "catalog unavailable",
			client:  &fakeBusinessClient{businessErr: businessservice.ErrUnavailable, service: testService()},
			req:     &Request{BusinessID: 1, ServiceID: 10, Date: monday},
			wantErr: ErrInternal,
		},
		{
			name:    "unknown staff",
			client:  &fakeBusinessClient{business: testBusiness(), service: testService()},
			req:     &Request{BusinessID: 1, ServiceID: 10, StaffID: unknown, Date: monday},
			wantErr: ErrStaffNotFound,
		},
		{
			name:    "inactive staff",
			client:  &fakeBusinessClient{business: testBusiness(), service: testService()},
			req:     &Request{BusinessID: 1, ServiceID: 10, StaffID: inactive, Date: monday},
			wantErr: ErrStaffNotFound,
		},
		{
			name:    "staff does not perform service",
			client:  &fakeBusinessClient{business: testBusiness(), service: notOffered},
			req:     &Request{BusinessID: 1, ServiceID: 10, StaffID: ptr.Ptr(int64(1)), Date: monday},
			wantErr: ErrServiceNotOffered,
		},
		{
			name:    "zero service duration",
			client:  &fakeBusinessClient{business: testBusiness(), service: zeroDuration},
			req:     &Request{BusinessID: 1, ServiceID: 10, Date: monday},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "invalid timezone",
			client:  &fakeBusinessClient{business: badTimezone, service: testService()},
			req:     &Request{BusinessID: 1, ServiceID: 10, Date: monday},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "missing date",
			client:  &fakeBusinessClient{business: testBusiness(), service: testService()},
			req:     &Request{BusinessID: 1, ServiceID: 10},
			wantErr: ErrInvalidDate,
		},
		{
			name:    "invalid business id",
			client:  &fakeBusinessClient{business: testBusiness(), service: testService()},
			req:     &Request{BusinessID: 0, ServiceID: 10, Date: monday},
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newTestUseCase(tt.client, &fakeBookingRepo{}, &fakeConfigRepo{err: configRepo.ErrConfigNotFound}, monday.Add(-time.Hour))

			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_StorageFailure(t *testing.T) {
	uc, _ := newTestUseCase(&fakeBusinessClient{business: testBusiness(), service: testService()},
		&fakeBookingRepo{err: errors.New("connection refused")},
		&fakeConfigRepo{err: configRepo.ErrConfigNotFound}, monday.Add(-time.Hour))

	_, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, Date: monday})
	assert.ErrorIs(t, err, ErrInternal)
}

func TestExecute_OverlappingBookingsInStorageAreTolerated(t *testing.T) {
	bookings := &fakeBookingRepo{bookings: []*domain.Booking{
		{ID: 1, StaffID: 1, BookingDate: monday, StartTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 2, StaffID: 1, BookingDate: monday, StartTime: "10:30", DurationMinutes: 60, Status: domain.StatusConfirmed},
	}}
	uc, _ := newTestUseCase(&fakeBusinessClient{business: testBusiness(), service: testService()}, bookings,
		&fakeConfigRepo{err: configRepo.ErrConfigNotFound}, monday.Add(-time.Hour))

	resp, err := uc.Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 10, StaffID: ptr.Ptr(int64(1)), Date: monday})
	require.NoError(t, err)

	for _, s := range resp.Slots.All() {
		if s.Time == types.TimeString("11:00") {
			assert.False(t, s.Available)
		}
	}
}
