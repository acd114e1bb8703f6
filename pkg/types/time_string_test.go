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
		want    string
		wantErr error
	}{
		{name: "hours and minutes", input: "10:05", want: "10:05"},
		{name: "with seconds", input: "10:05:30", want: "10:05:30"},
		{name: "zero seconds collapse", input: "09:00:00", want: "09:00"},
		{name: "end of day", input: "24:00", want: "24:00"},
		{name: "past end of day", input: "24:01", wantErr: ErrOutOfDay},
		{name: "minutes overflow", input: "10:60", wantErr: ErrInvalidFormat},
		{name: "single digit", input: "9:00", wantErr: ErrInvalidFormat},
		{name: "garbage", input: "noon", wantErr: ErrInvalidFormat},
		{name: "empty", input: "", wantErr: ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestTimeString_AddSeconds(t *testing.T) {
	start := MustTimeString("10:00")

	end, err := start.AddSeconds(300)
	require.NoError(t, err)
	assert.Equal(t, "10:05", end.String())

	withCooldown, err := end.AddMinutes(15)
	require.NoError(t, err)
	assert.Equal(t, "10:20", withCooldown.String())

	_, err = MustTimeString("23:50").AddMinutes(15)
	assert.ErrorIs(t, err, ErrOutOfDay)

	_, err = TimeString{}.AddSeconds(1)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_AddWithinDay(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		minutes int
		want    string
	}{
		{name: "inside day", start: "10:05", minutes: 15, want: "10:20"},
		{name: "exactly midnight", start: "23:45", minutes: 15, want: "24:00"},
		{name: "past midnight is capped", start: "23:55", minutes: 15, want: "24:00"},
		{name: "from midnight end", start: "24:00", minutes: 10, want: "24:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MustTimeString(tt.start).AddMinutesWithinDay(tt.minutes)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}

	_, err := TimeString{}.AddMinutesWithinDay(1)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("10:00")
	b := MustTimeString("10:00:01")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.False(t, a.IsBefore(a))
	assert.True(t, a.Equal(MustTimeString("10:00:00")))
	assert.False(t, TimeString{}.Equal(MustTimeString("00:00")))
}

func TestTimeString_ZeroValue(t *testing.T) {
	var zero TimeString
	assert.True(t, zero.IsZero())
	assert.Error(t, zero.Validate())

	midnight := MustTimeString("00:00")
	assert.False(t, midnight.IsZero())
	assert.NoError(t, midnight.Validate())
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("10:15:00")))
	assert.Equal(t, "10:15", ts.String())

	require.NoError(t, ts.Scan("08:30:15.000000"))
	assert.Equal(t, "08:30:15", ts.String())

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 7, 45, 0, 0, time.UTC)))
	assert.Equal(t, "07:45", ts.String())

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := MustTimeString("10:05").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:05:00", v)

	v, err = TimeString{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeString_JSON(t *testing.T) {
	type payload struct {
		Start TimeString `json:"start"`
	}

	data, err := json.Marshal(payload{Start: MustTimeString("10:10")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"start":"10:10"}`, string(data))

	var decoded payload
	require.NoError(t, json.Unmarshal([]byte(`{"start":"21:00:30"}`), &decoded))
	assert.Equal(t, "21:00:30", decoded.Start.String())

	assert.Error(t, json.Unmarshal([]byte(`{"start":"25:00"}`), &decoded))
}
