package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		in      string
		want    TimeString
		wantErr bool
	}{
		{in: "09:00", want: "09:00"},
		{in: "17:45:00", want: "17:45"},
		{in: "24:00", want: "24:00"},
		{in: "24:30", wantErr: true},
		{in: "9:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "10:15:30", wantErr: true},
		{in: "ab:cd", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	got, err := TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), got)

	_, err = TimeString("23:30").AddMinutes(45)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:30").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.False(t, TimeString("bad").IsBefore("10:00"))
}

func TestTimeString_Label(t *testing.T) {
	assert.Equal(t, "9:00 AM", TimeString("09:00").Label())
	assert.Equal(t, "12:30 PM", TimeString("12:30").Label())
	assert.Equal(t, "5:45 PM", TimeString("17:45").Label())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("08:30:00")))
	assert.Equal(t, TimeString("08:30"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}
