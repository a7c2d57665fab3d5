package domain

import (
	"sort"
	"time"
)

// CurrentStreak counts streak days ending at reference. Dates are
// deduplicated per calendar day and walked newest first; a date extends
// the streak when it equals the expected day or the day before it, and the
// expected day then moves to the day before the match. The first date that
// does not fit ends the walk. A streak whose last session was yesterday
// therefore still counts.
func CurrentStreak(dates []time.Time, reference time.Time) int {
	days := uniqueDays(dates)
	sort.Slice(days, func(i, j int) bool { return days[i].After(days[j]) })

	streak := 0
	expected := CalendarDate(reference)
	for _, day := range days {
		if day.Equal(expected) || day.Equal(expected.AddDate(0, 0, -1)) {
			streak++
			expected = day.AddDate(0, 0, -1)
			continue
		}
		break
	}
	return streak
}

// LongestStreak is the longest run anywhere in the history under the same
// rule CurrentStreak walks by: consecutive session days may be one or two
// calendar days apart. Every current streak is such a run, so
// CurrentStreak never exceeds LongestStreak for the same dates.
func LongestStreak(dates []time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if !days[i].After(days[i-1].AddDate(0, 0, 2)) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func uniqueDays(dates []time.Time) []time.Time {
	seen := make(map[time.Time]bool, len(dates))
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := CalendarDate(d)
		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}
	return days
}
