package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/romankud/kinotix/internal/domain"
)

func tod(t *testing.T, s string) domain.TimeOfDay {
	t.Helper()
	v, err := domain.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestAnchorInterval(t *testing.T) {
	start, end := anchorInterval(tod(t, "23:00"), tod(t, "01:15"))
	assert.Equal(t, int64(23*3600), start)
	assert.Equal(t, int64(25*3600+15*60), end)

	start, end = anchorInterval(tod(t, "10:00"), tod(t, "12:00"))
	assert.Equal(t, int64(10*3600), start)
	assert.Equal(t, int64(12*3600), end)
}

func TestIntervalsOverlap(t *testing.T) {
	tests := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd string
		want                       bool
	}{
		{name: "disjoint", aStart: "10:00", aEnd: "12:00", bStart: "13:00", bEnd: "15:00", want: false},
		{name: "nested", aStart: "10:00", aEnd: "15:00", bStart: "11:00", bEnd: "12:00", want: true},
		{name: "partial", aStart: "10:00", aEnd: "12:00", bStart: "11:00", bEnd: "14:00", want: true},
		{name: "touching endpoints collide", aStart: "10:00", aEnd: "12:00", bStart: "12:00", bEnd: "14:00", want: true},
		{name: "midnight wrap against late evening", aStart: "23:00", aEnd: "01:15", bStart: "23:30", bEnd: "01:45", want: true},
		{name: "midnight wrap against morning", aStart: "23:00", aEnd: "01:15", bStart: "09:00", bEnd: "11:00", want: false},
		{name: "identical slots", aStart: "18:00", aEnd: "20:30", bStart: "18:00", bEnd: "20:30", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := intervalsOverlap(tod(t, tt.aStart), tod(t, tt.aEnd), tod(t, tt.bStart), tod(t, tt.bEnd))
			assert.Equal(t, tt.want, got)

			// overlap is symmetric
			assert.Equal(t, got, intervalsOverlap(tod(t, tt.bStart), tod(t, tt.bEnd), tod(t, tt.aStart), tod(t, tt.aEnd)))
		})
	}
}

func TestDatesBetween(t *testing.T) {
	start := time.Date(2026, time.June, 28, 10, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.July, 2, 0, 0, 0, 0, time.UTC)

	got := datesBetween(start, end)
	require.Len(t, got, 5)
	assert.Equal(t, time.Date(2026, time.June, 28, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2026, time.July, 2, 0, 0, 0, 0, time.UTC), got[4])
}

func TestDatesBetween_SingleDay(t *testing.T) {
	d := time.Date(2026, time.June, 28, 0, 0, 0, 0, time.UTC)
	got := datesBetween(d, d)
	require.Len(t, got, 1)
	assert.Equal(t, d, got[0])
}
