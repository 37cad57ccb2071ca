package types_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberBooking/pkg/types"
)

func TestNewTimeStringFromString(t *testing.T) {
	cases := []struct {
		input   string
		wantErr bool
	}{
		{"10:00", false},
		{"00:00", false},
		{"23:59", false},
		{"9:00", true}, // без ведущего нуля
		{"24:00", true},
		{"10:60", true},
		{"abc", true},
		{"", true},
	}

	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			ts, err := types.NewTimeStringFromString(tc.input)
			if tc.wantErr {
				require.ErrorIs(t, err, types.ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.input, ts.String())
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	cases := []struct {
		start   string
		minutes int
		want    string
		wantErr bool
	}{
		{"10:00", 30, "10:30", false},
		{"10:45", 30, "11:15", false},
		{"23:00", 60, "24:00", false}, // конец дня представим
		{"23:30", 45, "", true},       // за полночь
		{"00:00", -15, "", true},
	}

	for _, tc := range cases {
		got, err := types.TimeString(tc.start).AddMinutes(tc.minutes)
		if tc.wantErr {
			require.Error(t, err, "%s + %d", tc.start, tc.minutes)
			continue
		}
		require.NoError(t, err, "%s + %d", tc.start, tc.minutes)
		require.Equal(t, types.TimeString(tc.want), got)
	}
}

func TestTimeString_Compare(t *testing.T) {
	require.True(t, types.TimeString("09:00").IsBefore("10:00"))
	require.True(t, types.TimeString("10:30").IsAfter("10:00"))
	require.False(t, types.TimeString("10:00").IsBefore("10:00"))
	require.False(t, types.TimeString("10:00").IsAfter("10:00"))

	// "24:00" сортируется после любого валидного времени
	require.True(t, types.TimeString("23:59").IsBefore("24:00"))
}

func TestTimeString_Scan(t *testing.T) {
	var ts types.TimeString

	// Postgres может вернуть time с секундами
	require.NoError(t, ts.Scan("14:30:00"))
	require.Equal(t, types.TimeString("14:30"), ts)

	require.NoError(t, ts.Scan([]byte("08:15:00")))
	require.Equal(t, types.TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(time.Date(2026, 9, 1, 11, 45, 0, 0, time.UTC)))
	require.Equal(t, types.TimeString("11:45"), ts)

	require.NoError(t, ts.Scan(nil))
	require.True(t, ts.IsZero())

	require.Error(t, ts.Scan(42))
}
