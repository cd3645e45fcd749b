package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SlotScheduler/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SlotScheduler/internal/integrations/businessservice"
	"github.com/m04kA/SMC-SlotScheduler/internal/service/bookings/models"
	"github.com/m04kA/SMC-SlotScheduler/pkg/ptr"
)

const (
	customerID = int64(7)
	managerID  = int64(100)
	strangerID = int64(55)
)

type fakeBookingRepo struct {
	bookings map[int64]*domain.Booking
	filter   *domain.BookingsFilter
	err      error
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookingRepo) GetByCustomerID(ctx context.Context, customerID int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	result := make([]*domain.Booking, 0)
	for _, b := range f.bookings {
		if b.CustomerID == customerID && (status == nil || b.Status == *status) {
			result = append(result, b)
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	f.filter = &filter
	return []*domain.Booking{f.bookings[1]}, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	f.bookings[id].Status = status
	return nil
}

func (f *fakeBookingRepo) Cancel(ctx context.Context, id int64, cancelledBy domain.CancelledBy, reason *string) error {
	b := f.bookings[id]
	now := time.Now()
	b.Status = domain.StatusCancelled
	b.CancelledBy = &cancelledBy
	b.CancellationReason = reason
	b.CancelledAt = &now
	return nil
}

type fakeBusinessClient struct {
	err error
}

func (f *fakeBusinessClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &businessservice.Business{ID: businessID, ManagerIDs: []int64{managerID}}, nil
}

type fakeTxManager struct{ calls int }

func (f *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestService(status domain.BookingStatus) (*Service, *fakeBookingRepo, *fakeTxManager) {
	repo := &fakeBookingRepo{bookings: map[int64]*domain.Booking{
		1: {
			ID: 1, BusinessID: 1, StaffID: 2, ServiceID: 10, CustomerID: customerID,
			BookingDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), StartTime: "10:00",
			DurationMinutes: 60, BufferMinutes: 15, Status: status, CustomerName: "Maria",
		},
	}}
	tx := &fakeTxManager{}
	return NewService(repo, &fakeBusinessClient{}, tx, nopLogger{}), repo, tx
}

func TestGetByID_Access(t *testing.T) {
	svc, _, _ := newTestService(domain.StatusPending)

	resp, err := svc.GetByID(context.Background(), 1, customerID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", resp.BookingDate)
	assert.Equal(t, "11:00", resp.EndTime)
	assert.Equal(t, 15, resp.BufferMinutes)

	_, err = svc.GetByID(context.Background(), 1, managerID)
	require.NoError(t, err)

	_, err = svc.GetByID(context.Background(), 1, strangerID)
	require.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.GetByID(context.Background(), 2, customerID)
	require.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetByID_CatalogFailureIsInternal(t *testing.T) {
	svc, _, _ := newTestService(domain.StatusPending)
	svc.businessClient = &fakeBusinessClient{err: businessservice.ErrUnavailable}

	_, err := svc.GetByID(context.Background(), 1, strangerID)
	require.ErrorIs(t, err, ErrInternal)
}

func TestCancel_ByCustomer(t *testing.T) {
	svc, repo, tx := newTestService(domain.StatusPending)

	resp, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{
		UserID: customerID, CancellationReason: ptr.Ptr("changed plans"),
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCancelled), resp.Status)
	require.NotNil(t, resp.CancelledBy)
	assert.Equal(t, string(domain.CancelledByCustomer), *resp.CancelledBy)
	assert.NotNil(t, resp.CancelledAt)
	assert.Equal(t, domain.StatusCancelled, repo.bookings[1].Status)
	assert.Equal(t, 1, tx.calls)
}

func TestCancel_ByManager(t *testing.T) {
	svc, repo, _ := newTestService(domain.StatusConfirmed)

	_, err := svc.Cancel(context.Background(), 1, &models.CancelBookingRequest{UserID: managerID})
	require.NoError(t, err)
	assert.Equal(t, domain.CancelledByBusiness, *repo.bookings[1].CancelledBy)
}

func TestCancel_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  domain.BookingStatus
		req     *models.CancelBookingRequest
		wantErr error
	}{
		{"stranger", domain.StatusPending, &models.CancelBookingRequest{UserID: strangerID}, ErrAccessDenied},
		{"already cancelled", domain.StatusCancelled, &models.CancelBookingRequest{UserID: customerID}, ErrCannotCancel},
		{"completed", domain.StatusCompleted, &models.CancelBookingRequest{UserID: managerID}, ErrCannotCancel},
		{
			"reason too long", domain.StatusPending,
			&models.CancelBookingRequest{UserID: customerID, CancellationReason: ptr.Ptr(string(make([]rune, domain.MaxCancellationReasonLength+1)))},
			ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.status)
			_, err := svc.Cancel(context.Background(), 1, tt.req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestUpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.BookingStatus
		to      string
		userID  int64
		wantErr error
	}{
		{"confirm", domain.StatusPending, "confirmed", managerID, nil},
		{"complete", domain.StatusConfirmed, "completed", managerID, nil},
		{"no show", domain.StatusConfirmed, "no_show", managerID, nil},
		{"skip confirmation", domain.StatusPending, "completed", managerID, ErrInvalidTransition},
		{"reopen cancelled", domain.StatusCancelled, "confirmed", managerID, ErrInvalidTransition},
		{"unknown status", domain.StatusPending, "in_progress", managerID, ErrInvalidInput},
		{"customer cannot confirm", domain.StatusPending, "confirmed", customerID, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newTestService(tt.from)

			resp, err := svc.UpdateStatus(context.Background(), 1, &models.UpdateStatusRequest{UserID: tt.userID, Status: tt.to})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, repo.bookings[1].Status)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, resp.Status)
		})
	}
}

func TestGetCustomerBookings(t *testing.T) {
	svc, _, _ := newTestService(domain.StatusPending)

	resp, err := svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{UserID: customerID, CustomerID: customerID})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	resp, err = svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		UserID: customerID, CustomerID: customerID, Status: ptr.Ptr("confirmed"),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Bookings)

	_, err = svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{
		UserID: customerID, CustomerID: customerID, Status: ptr.Ptr("unknown"),
	})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.GetCustomerBookings(context.Background(), &models.GetCustomerBookingsRequest{UserID: strangerID, CustomerID: customerID})
	require.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetBusinessBookings(t *testing.T) {
	svc, repo, _ := newTestService(domain.StatusPending)
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	resp, err := svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		UserID: managerID, BusinessID: 1, StaffID: ptr.Ptr(int64(2)), StartDate: &day, EndDate: &day,
		Status: ptr.Ptr("pending"),
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	require.NotNil(t, repo.filter)
	assert.Equal(t, []int64{2}, repo.filter.StaffIDs)
	require.NotNil(t, repo.filter.Status)
	assert.Equal(t, domain.StatusPending, *repo.filter.Status)

	_, err = svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{UserID: customerID, BusinessID: 1})
	require.ErrorIs(t, err, ErrAccessDenied)

	before := day.AddDate(0, 0, -1)
	_, err = svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{
		UserID: managerID, BusinessID: 1, StartDate: &day, EndDate: &before,
	})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessBookings_BusinessNotFound(t *testing.T) {
	svc, _, _ := newTestService(domain.StatusPending)
	svc.businessClient = &fakeBusinessClient{err: businessservice.ErrBusinessNotFound}

	_, err := svc.GetBusinessBookings(context.Background(), &models.GetBusinessBookingsRequest{UserID: managerID, BusinessID: 1})
	require.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestGetByID_StorageFailure(t *testing.T) {
	svc, repo, _ := newTestService(domain.StatusPending)
	repo.err = errors.New("connection refused")

	_, err := svc.GetByID(context.Background(), 1, customerID)
	require.ErrorIs(t, err, ErrInternal)
}
