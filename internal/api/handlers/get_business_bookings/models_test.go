package get_business_bookings

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToServiceRequest(t *testing.T) {
	t.Run("single date", func(t *testing.T) {
		req, err := ToServiceRequest(1, 2, url.Values{
			"date":            {"2025-10-15"},
			"staffId":         {"3"},
			"status":          {"confirmed"},
			"includeInactive": {"true"},
		})
		require.NoError(t, err)

		day := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
		assert.True(t, req.StartDate.Equal(day))
		assert.True(t, req.EndDate.Equal(day))
		assert.Equal(t, int64(3), *req.StaffID)
		assert.Equal(t, "confirmed", *req.Status)
		assert.True(t, req.IncludeInactive)
		assert.Equal(t, int64(2), req.UserID)
	})

	t.Run("range", func(t *testing.T) {
		req, err := ToServiceRequest(1, 2, url.Values{
			"startDate": {"2025-10-01"},
			"endDate":   {"2025-10-31"},
		})
		require.NoError(t, err)
		assert.Equal(t, 1, req.StartDate.Day())
		assert.Equal(t, 31, req.EndDate.Day())
		assert.Nil(t, req.StaffID)
		assert.False(t, req.IncludeInactive)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, q := range []url.Values{
			{"staffId": {"x"}},
			{"date": {"2025-13-01"}},
			{"date": {"2025-10-01"}, "endDate": {"2025-10-02"}},
			{"includeInactive": {"maybe"}},
		} {
			_, err := ToServiceRequest(1, 2, q)
			assert.Error(t, err, q.Encode())
		}
	})
}
