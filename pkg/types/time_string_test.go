package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "hours and minutes", input: "08:00", want: "08:00"},
		{name: "postgres time with seconds", input: "13:30:00", want: "13:30"},
		{name: "surrounding spaces", input: " 09:15 ", want: "09:15"},
		{name: "garbage", input: "nine", wantErr: true},
		{name: "out of range", input: "25:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Arithmetic(t *testing.T) {
	start := MustTimeString("08:00")

	assert.Equal(t, TimeString("08:30"), start.AddMinutes(30))
	assert.Equal(t, TimeString("00:10"), MustTimeString("23:50").AddMinutes(20))
	assert.True(t, start.IsBefore("12:00"))
	assert.True(t, MustTimeString("12:00").IsAfter(start))
	assert.Equal(t, 480, start.Minutes())
	assert.Equal(t, -1, TimeString("bad").Minutes())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("14:45:00")))
	assert.Equal(t, TimeString("14:45"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("07:05"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_JSON(t *testing.T) {
	var payload struct {
		Start TimeString `json:"start"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"start":"10:00:00"}`), &payload))
	assert.Equal(t, TimeString("10:00"), payload.Start)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"10:00"}`, string(out))
}

func TestTimeString_OnDate(t *testing.T) {
	date := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	got := MustTimeString("16:20").OnDate(date)
	assert.Equal(t, time.Date(2026, time.March, 10, 16, 20, 0, 0, time.UTC), got)
}
