package timeinterval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-InfusionService/pkg/types"
)

func ts(s string) types.TimeString {
	return types.MustTimeString(s)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name         string
		startA, endA string
		startB, endB string
		want         bool
	}{
		{name: "disjoint", startA: "10:00", endA: "10:30", startB: "11:00", endB: "11:30", want: false},
		{name: "back to back", startA: "10:00", endA: "10:30", startB: "10:30", endB: "11:00", want: false},
		{name: "partial overlap", startA: "10:00", endA: "10:30", startB: "10:20", endB: "10:50", want: true},
		{name: "containment", startA: "10:00", endA: "12:00", startB: "10:30", endB: "11:00", want: true},
		{name: "identical", startA: "10:00", endA: "10:05", startB: "10:00", endB: "10:05", want: true},
		{name: "one second overlap", startA: "10:00", endA: "10:05:01", startB: "10:05", endB: "10:10", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Overlaps(ts(tt.startA), ts(tt.endA), ts(tt.startB), ts(tt.endB))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			// Симметрия: перестановка A и B не меняет результат
			swapped, err := Overlaps(ts(tt.startB), ts(tt.endB), ts(tt.startA), ts(tt.endA))
			require.NoError(t, err)
			assert.Equal(t, got, swapped)
		})
	}
}

func TestOverlaps_MissingBound(t *testing.T) {
	_, err := Overlaps(types.TimeString{}, ts("10:00"), ts("09:00"), ts("11:00"))
	assert.ErrorIs(t, err, ErrMissingBound)

	_, err = Overlaps(ts("09:00"), ts("10:00"), ts("09:00"), types.TimeString{})
	assert.ErrorIs(t, err, ErrMissingBound)
}
