package businessservice

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SlotScheduler/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type countingMetrics struct {
	reasons []string
}

func (m *countingMetrics) IncBusinessServiceFailure(reason string) {
	m.reasons = append(m.reasons, reason)
}

const businessJSON = `{
	"id": 7,
	"name": "Salon",
	"timezone": "Europe/Moscow",
	"working_hours": {
		"monday": {"is_open": true, "open_time": "09:00", "close_time": "18:00"},
		"sunday": {"is_open": false}
	},
	"staff": [
		{"id": 1, "name": "Anna", "active": true},
		{"id": 2, "name": "Olga", "active": false}
	],
	"manager_ids": [100]
}`

func newTestClient(url string, m Metrics) *Client {
	return NewClient(url, time.Second, BreakerSettings{MaxRequests: 1, Timeout: time.Minute, ConsecutiveFailures: 2}, m, nopLogger{})
}

func TestGetBusiness_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/businesses/7", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(businessJSON))
	}))
	defer srv.Close()

	business, err := newTestClient(srv.URL, nil).GetBusiness(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, "Salon", business.Name)
	assert.True(t, business.IsManager(100))
	assert.False(t, business.IsManager(1))

	staff, ok := business.FindStaff(2)
	require.True(t, ok)
	assert.False(t, staff.Active)

	loc, err := business.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())

	schedule, err := business.WorkingHours.ToDomain()
	require.NoError(t, err)
	assert.True(t, schedule.Monday.IsOpen)
	assert.Equal(t, types.TimeString("09:00"), schedule.Monday.OpenTime)
	assert.False(t, schedule.Sunday.IsOpen)
}

func TestGetBusiness_NotFoundDoesNotTripBreaker(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := newTestClient(srv.URL, nil)
	for i := 0; i < 5; i++ {
		_, err := client.GetBusiness(context.Background(), 1)
		assert.ErrorIs(t, err, ErrBusinessNotFound)
	}
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestGetService_BreakerOpensAfterFailures(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := &countingMetrics{}
	client := newTestClient(srv.URL, m)

	for i := 0; i < 2; i++ {
		_, err := client.GetService(context.Background(), 1, 2)
		assert.ErrorIs(t, err, ErrInvalidResponse)
	}

	_, err := client.GetService(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Equal(t, []string{"status", "status", "circuit_open"}, m.reasons)
}

func TestGetService_WrongBusiness(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": 2, "business_id": 99, "duration_minutes": 60}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL, nil).GetService(context.Background(), 1, 2)
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestServicePerformedBy(t *testing.T) {
	all := &Service{}
	assert.True(t, all.PerformedBy(42))

	some := &Service{StaffIDs: []int64{1, 3}}
	assert.True(t, some.PerformedBy(3))
	assert.False(t, some.PerformedBy(2))

	business := &Business{Staff: []Staff{{ID: 1, Active: true}, {ID: 2, Active: true}, {ID: 3, Active: false}}}
	eligible := business.EligibleStaff(some)
	require.Len(t, eligible, 1)
	assert.Equal(t, int64(1), eligible[0].ID)
}

func TestGetService_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	var slow atomic.Bool
	slow.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if slow.Load() {
			select {
			case <-r.Context().Done():
			case <-time.After(200 * time.Millisecond):
			}
			return
		}
		_, _ = w.Write([]byte(`{"id": 2, "business_id": 1, "duration_minutes": 60}`))
	}))
	defer srv.Close()

	m := &countingMetrics{}
	client := newTestClient(srv.URL, m)

	for i := 0; i < 3; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		_, err := client.GetService(ctx, 1, 2)
		cancel()
		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.NotErrorIs(t, err, ErrUnavailable)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.GetService(cancelled, 1, 2)
	assert.ErrorIs(t, err, context.Canceled)

	slow.Store(false)
	service, err := client.GetService(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), service.ID)
	assert.Empty(t, m.reasons)
}
