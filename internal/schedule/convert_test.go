package schedule

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLocalToUTC(t *testing.T) {
	now := utc(2025, time.January, 9, 12, 0)
	kst := time.FixedZone("KST", 9*60*60)

	got := LocalToUTC(Clock{Hour: 6, Minute: 30}, now, kst)
	assert.Equal(t, Clock{Hour: 21, Minute: 30}, got) // crosses midnight backwards

	got = LocalToUTC(Clock{Hour: 21, Minute: 0}, now, kst)
	assert.Equal(t, Clock{Hour: 12, Minute: 0}, got)
}

func TestUTCToLocal(t *testing.T) {
	now := utc(2025, time.January, 9, 12, 0)
	pst := time.FixedZone("PST", -8*60*60)

	got := UTCToLocal(Clock{Hour: 3, Minute: 15}, now, pst)
	assert.Equal(t, Clock{Hour: 19, Minute: 15}, got) // crosses midnight forwards
}

func TestClockRoundTrip(t *testing.T) {
	now := utc(2025, time.January, 9, 12, 0)
	zones := []*time.Location{
		time.UTC,
		time.FixedZone("KST", 9*60*60),
		time.FixedZone("NPT", 5*60*60+45*60), // non-whole-hour offset
		time.FixedZone("PST", -8*60*60),
	}

	for _, loc := range zones {
		for hour := 0; hour < 24; hour += 3 {
			for _, minute := range []int{0, 30, 59} {
				in := Clock{Hour: hour, Minute: minute}
				out := UTCToLocal(LocalToUTC(in, now, loc), now, loc)
				assert.Equal(t, in, out, "zone %s %02d:%02d", loc, hour, minute)
			}
		}
	}
}

func TestLocalSlotToUTC(t *testing.T) {
	tests := []struct {
		name          string
		slot          Slot
		offsetMinutes int
		want          Slot
	}{
		{
			name:          "zero offset is identity",
			slot:          Slot{Weekday: 3, Hour: 14, Minute: 30},
			offsetMinutes: 0,
			want:          Slot{Weekday: 3, Hour: 14, Minute: 30},
		},
		{
			name:          "plus eight crosses into previous day",
			slot:          Slot{Weekday: 2, Hour: 4, Minute: 0},
			offsetMinutes: 8 * 60,
			want:          Slot{Weekday: 1, Hour: 20, Minute: 0},
		},
		{
			name:          "week boundary wraps Monday back to Sunday",
			slot:          Slot{Weekday: 1, Hour: 0, Minute: 30},
			offsetMinutes: 480,
			want:          Slot{Weekday: 7, Hour: 16, Minute: 30},
		},
		{
			name:          "negative offset wraps Sunday forward to Monday",
			slot:          Slot{Weekday: 7, Hour: 23, Minute: 30},
			offsetMinutes: -120,
			want:          Slot{Weekday: 1, Hour: 1, Minute: 30},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalSlotToUTC(tt.slot, tt.offsetMinutes))
		})
	}
}

func TestLocalSlotToUTCRoundTrip(t *testing.T) {
	for _, offset := range []int{0, 60, 480, 345, -600} {
		for wd := 1; wd <= 7; wd++ {
			slot := Slot{Weekday: wd, Hour: 13, Minute: 45}
			back := LocalSlotToUTC(LocalSlotToUTC(slot, offset), -offset)
			assert.Equal(t, slot, back, fmt.Sprintf("offset %d weekday %d", offset, wd))
		}
	}
}
