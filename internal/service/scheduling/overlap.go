package scheduling

import (
	"time"

	"github.com/romankud/kinotix/internal/domain"
)

const secondsPerDay = 24 * 60 * 60

// anchorInterval maps a [start, end) time-of-day pair onto a synthetic
// single day. When the displayed end is numerically earlier than the start
// the slot crosses midnight, so its comparison end anchors to the next
// calendar day. Elapsed duration therefore always comes out positive.
func anchorInterval(start, end domain.TimeOfDay) (int64, int64) {
	s := int64(start)
	e := int64(end)

	if e < s {
		e += secondsPerDay
	}

	return s, e
}

// intervalsOverlap reports whether two session time slots collide on the
// synthetic day. Endpoints are compared inclusively.
func intervalsOverlap(aStart, aEnd, bStart, bEnd domain.TimeOfDay) bool {
	as, ae := anchorInterval(aStart, aEnd)
	bs, be := anchorInterval(bStart, bEnd)

	return as <= be && bs <= ae
}

// datesBetween enumerates every calendar date in [start, end] inclusive.
func datesBetween(start, end time.Time) []time.Time {
	var out []time.Time
	for d := dateOnly(start); !d.After(dateOnly(end)); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}

	return out
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
