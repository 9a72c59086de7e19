// Package week implements the planner's week numbering.
//
// Weeks run Monday to Sunday. Week 1 of a year starts on the first Monday on
// or after January 1st, and the days before that Monday belong to the last
// week of the previous year. This is not ISO-8601 numbering: stored plans are
// keyed by these identifiers, so the scheme must stay stable.
package week

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/comitanigiacomo/musule-planner/internal/core/domain"
)

const (
	DefaultTimezone = "Asia/Tokyo"
	MaxWeek         = 53
	maxIDLength     = 32
)

var (
	idRegex       = regexp.MustCompile(`^(\d{4})-(\d{2})$`)
	nonAlnumRegex = regexp.MustCompile(`[^a-z0-9]`)
)

// Labels are indexed by time.Weekday.
var dayLabels = [7]string{"日", "月", "火", "水", "木", "金", "土"}

type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) StartDate() string { return r.Start.Format(time.DateOnly) }
func (r Range) EndDate() string   { return r.End.Format(time.DateOnly) }

// Contains reports whether the calendar date of t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	d := civil(t.Year(), t.Month(), t.Day())
	return !d.Before(r.Start) && !d.After(r.End)
}

func civil(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func firstMonday(year int) time.Time {
	jan1 := civil(year, time.January, 1)
	offset := (int(time.Monday) - int(jan1.Weekday()) + 7) % 7
	return jan1.AddDate(0, 0, offset)
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}

func Format(year, num int) string {
	return fmt.Sprintf("%04d-%02d", year, num)
}

// Of returns the identifier of the week containing t's calendar date, read in
// t's own location.
func Of(t time.Time) string {
	d := civil(t.Year(), t.Month(), t.Day())

	year := d.Year()
	anchor := firstMonday(year)
	if d.Before(anchor) {
		year--
		anchor = firstMonday(year)
	}

	return Format(year, daysBetween(anchor, d)/7+1)
}

// Current returns the identifier of the week containing now in loc.
func Current(now time.Time, loc *time.Location) string {
	return Of(now.In(loc))
}

// Parse splits an identifier into year and week number.
func Parse(id string) (int, int, error) {
	m := idRegex.FindStringSubmatch(id)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidWeek, id)
	}

	year, _ := strconv.Atoi(m[1])
	num, _ := strconv.Atoi(m[2])
	if year < 1 || num < 1 || num > WeeksIn(year) {
		return 0, 0, fmt.Errorf("%w: %q", domain.ErrInvalidWeek, id)
	}
	return year, num, nil
}

// WeeksIn returns how many weeks a year has: 52, or 53 when the span up to
// the next year's first Monday holds a 53rd Monday.
func WeeksIn(year int) int {
	return daysBetween(firstMonday(year), firstMonday(year+1)) / 7
}

func Validate(id string) error {
	_, _, err := Parse(id)
	return err
}

// Dates returns the Monday..Sunday span of a week.
func Dates(id string) (Range, error) {
	year, num, err := Parse(id)
	if err != nil {
		return Range{}, err
	}

	start := firstMonday(year).AddDate(0, 0, (num-1)*7)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}, nil
}

// DateOf returns the YYYY-MM-DD date of the given weekday inside a week.
func DateOf(id string, day time.Weekday) (string, error) {
	r, err := Dates(id)
	if err != nil {
		return "", err
	}

	offset := (int(day) - int(time.Monday) + 7) % 7
	return r.Start.AddDate(0, 0, offset).Format(time.DateOnly), nil
}

// DayLabel maps a YYYY-MM-DD date to its one-character Japanese weekday, or
// "" when the date does not parse.
func DayLabel(date string) string {
	d, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return ""
	}
	return dayLabels[d.Weekday()]
}

// WeekdayFromLabel is the inverse of DayLabel for a single label character.
func WeekdayFromLabel(label string) (time.Weekday, bool) {
	for i, l := range dayLabels {
		if l == label {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// WorkoutID builds "{weekday}-{type}-{detail}" capped at 32 characters. The
// detail keeps only ASCII letters and digits, so different details can map to
// the same id.
func WorkoutID(date, workoutType, detail string) string {
	clean := nonAlnumRegex.ReplaceAllString(strings.ToLower(detail), "")
	id := []rune(DayLabel(date) + "-" + workoutType + "-" + clean)
	if len(id) > maxIDLength {
		id = id[:maxIDLength]
	}
	return string(id)
}
