package week_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
	"github.com/comitanigiacomo/musule-planner/internal/core/week"
)

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(week.DefaultTimezone)
	require.NoError(t, err)
	return loc
}

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		date time.Time
		want string
	}{
		{"Mid July 2025", time.Date(2025, 7, 8, 12, 0, 0, 0, time.UTC), "2025-27"},
		{"First Monday of 2025", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC), "2025-01"},
		{"Sunday closes the week", time.Date(2025, 7, 20, 23, 59, 0, 0, time.UTC), "2025-28"},
		{"Monday opens the next one", time.Date(2025, 7, 21, 0, 0, 0, 0, time.UTC), "2025-29"},
		{"Year starting on Monday", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01"},
		{"Days before the first Monday roll back", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), "2024-53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, week.Of(tt.date))
		})
	}
}

func TestCurrent_UsesFixedTimezone(t *testing.T) {
	loc := tokyo(t)

	// Sunday evening in UTC is already Monday morning in Tokyo.
	now := time.Date(2025, 7, 13, 16, 0, 0, 0, time.UTC)

	assert.Equal(t, "2025-28", week.Current(now, loc))
	assert.Equal(t, "2025-27", week.Current(now, time.UTC))
}

func TestCurrent_BracketsNow(t *testing.T) {
	loc := tokyo(t)
	now := time.Now()

	r, err := week.Dates(week.Current(now, loc))
	require.NoError(t, err)
	assert.True(t, r.Contains(now.In(loc)))
}

func TestDates(t *testing.T) {
	t.Run("Known week", func(t *testing.T) {
		r, err := week.Dates("2025-28")
		require.NoError(t, err)
		assert.Equal(t, "2025-07-14", r.StartDate())
		assert.Equal(t, "2025-07-20", r.EndDate())
	})

	t.Run("Week spanning new year", func(t *testing.T) {
		r, err := week.Dates("2024-53")
		require.NoError(t, err)
		assert.Equal(t, "2024-12-30", r.StartDate())
		assert.Equal(t, "2025-01-05", r.EndDate())
	})

	t.Run("Year starting on Monday opens week 01 on Jan 1", func(t *testing.T) {
		for _, id := range []string{"2024-01", "2029-01"} {
			r, err := week.Dates(id)
			require.NoError(t, err)
			assert.Equal(t, id[:4]+"-01-01", r.StartDate(), id)
			assert.Equal(t, id[:4]+"-01-07", r.EndDate(), id)
		}

		r, err := week.Dates("2023-52")
		require.NoError(t, err)
		assert.Equal(t, "2023-12-31", r.EndDate())
	})

	t.Run("Invalid identifiers", func(t *testing.T) {
		for _, id := range []string{"", "2025", "2025-1", "2025-00", "2025-54", "25-10", "2025-W10", "../../etc"} {
			_, err := week.Dates(id)
			assert.ErrorIs(t, err, domain.ErrInvalidWeek, id)
		}
	})
}

func TestDates_MondayToSundayProperty(t *testing.T) {
	for y := 2020; y <= 2030; y++ {
		for n := 1; n <= week.WeeksIn(y); n++ {
			r, err := week.Dates(week.Format(y, n))
			require.NoError(t, err)
			assert.Equal(t, time.Monday, r.Start.Weekday())
			assert.Equal(t, time.Sunday, r.End.Weekday())
			assert.Equal(t, r.Start.AddDate(0, 0, 6), r.End)
		}
	}
}

func TestWeeksIn(t *testing.T) {
	assert.Equal(t, 53, week.WeeksIn(2024))
	assert.Equal(t, 52, week.WeeksIn(2025))
	assert.Equal(t, 52, week.WeeksIn(2026))

	t.Run("A missing week 53 is rejected", func(t *testing.T) {
		_, err := week.Dates("2025-53")
		assert.ErrorIs(t, err, domain.ErrInvalidWeek)
	})

	t.Run("Every span has exactly one id", func(t *testing.T) {
		seen := map[string]string{}
		for y := 2019; y <= 2031; y++ {
			for n := 1; n <= week.MaxWeek; n++ {
				id := week.Format(y, n)
				r, err := week.Dates(id)
				if err != nil {
					continue
				}
				if prev, ok := seen[r.StartDate()]; ok {
					t.Fatalf("%s and %s both start on %s", prev, id, r.StartDate())
				}
				seen[r.StartDate()] = id
				assert.Equal(t, id, week.Of(r.Start))
			}
		}
	})
}

func TestOf_RoundTripsThroughDates(t *testing.T) {
	d := time.Date(2019, 12, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2031, 1, 31, 0, 0, 0, 0, time.UTC)

	for ; !d.After(end); d = d.AddDate(0, 0, 1) {
		id := week.Of(d)
		r, err := week.Dates(id)
		require.NoError(t, err, id)
		require.True(t, r.Contains(d), "%s not inside %s (%s..%s)", d.Format(time.DateOnly), id, r.StartDate(), r.EndDate())
	}
}

func TestDateOf(t *testing.T) {
	got, err := week.DateOf("2025-28", time.Tuesday)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-15", got)

	got, err = week.DateOf("2025-28", time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-20", got)

	_, err = week.DateOf("bogus", time.Monday)
	assert.Error(t, err)
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "火", week.DayLabel("2025-07-08"))
	assert.Equal(t, "日", week.DayLabel("2025-07-13"))
	assert.Equal(t, "", week.DayLabel("not-a-date"))

	wd, ok := week.WeekdayFromLabel("土")
	assert.True(t, ok)
	assert.Equal(t, time.Saturday, wd)

	_, ok = week.WeekdayFromLabel("x")
	assert.False(t, ok)
}

func TestWorkoutID(t *testing.T) {
	t.Run("Strips non alphanumerics", func(t *testing.T) {
		assert.Equal(t, "火-run-5km", week.WorkoutID("2025-07-08", "run", "5km ランニング"))
	})

	t.Run("Truncates to 32 characters", func(t *testing.T) {
		id := week.WorkoutID("2025-07-08", "strength", "Bench Press 3 sets, then Squats 5x5 heavy")

		assert.Equal(t, 32, utf8.RuneCountInString(id))
		assert.True(t, strings.HasPrefix(id, "火-strength-benchpress3sets"))
	})

	t.Run("Similar details collide", func(t *testing.T) {
		a := week.WorkoutID("2025-07-08", "run", "5km!")
		b := week.WorkoutID("2025-07-08", "run", "5 km")
		assert.Equal(t, a, b)
	})
}
