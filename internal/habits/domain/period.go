package domain

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// CalendarDate drops the clock part of t, keeping t's own year, month and
// day, and returns midnight UTC. All session dates use this form.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekBounds returns the Monday and Sunday of the week containing reference.
func WeekBounds(reference time.Time) (time.Time, time.Time) {
	day := CalendarDate(reference)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// FormatDuration renders minutes as "45m", "2h" or "2h 30m", rounding to
// the nearest minute.
func FormatDuration(minutes float64) string {
	total := int(math.Round(minutes))
	if total < 0 {
		total = 0
	}
	if total < 60 {
		return fmt.Sprintf("%dm", total)
	}
	hours, mins := total/60, total%60
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dm", hours, mins)
}

// Period is a trend bucket size.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// Start is the first day of the bucket containing date. Weeks start on Monday.
func (p Period) Start(date time.Time) time.Time {
	day := CalendarDate(date)
	switch p {
	case PeriodWeek:
		start, _ := WeekBounds(day)
		return start
	case PeriodMonth:
		return time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	case PeriodYear:
		return time.Date(day.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return day
	}
}

// Label formats a bucket start for display.
func (p Period) Label(start time.Time) string {
	switch p {
	case PeriodMonth:
		return start.Format("2006-01")
	case PeriodYear:
		return start.Format("2006")
	default:
		return start.Format("2006-01-02")
	}
}

// PeriodTotal is the sum of session minutes in one bucket.
type PeriodTotal struct {
	Start    time.Time `json:"start"`
	Label    string    `json:"label"`
	Sessions int       `json:"sessions"`
	Minutes  int       `json:"minutes"`
}

// AggregateByPeriod buckets sessions by period, oldest bucket first.
func AggregateByPeriod(sessions []*Session, period Period) []PeriodTotal {
	buckets := make(map[time.Time]*PeriodTotal)
	for _, s := range sessions {
		start := period.Start(s.SessionDate())
		total, ok := buckets[start]
		if !ok {
			total = &PeriodTotal{Start: start, Label: period.Label(start)}
			buckets[start] = total
		}
		total.Sessions++
		total.Minutes += s.DurationMinutes()
	}

	out := make([]PeriodTotal, 0, len(buckets))
	for _, total := range buckets {
		out = append(out, *total)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out
}
