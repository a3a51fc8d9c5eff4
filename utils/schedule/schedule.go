package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"choretrack/choretrack/models"
)

// Bucket is one of the three time-proximity groups tasks are displayed in.
type Bucket string

const (
	BucketToday Bucket = "today" // due today or overdue
	BucketWeek  Bucket = "week"  // due within the next six days
	BucketLater Bucket = "later" // undated or seven or more days out
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// ParseLocalDate parses a YYYY-MM-DD string as a midnight-aligned local
// calendar date. The components are reassembled in the local location so the
// date never shifts across a time zone boundary.
func ParseLocalDate(s string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.Local), nil
}

// ValidDate reports whether s is a well-formed YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// ValidClock reports whether s is a well-formed HH:MM 24-hour time.
func ValidClock(s string) bool {
	_, err := time.Parse(clockLayout, s)
	return err == nil
}

// Midnight truncates t to the start of its local calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Assign classifies a task date into exactly one bucket relative to today.
// Undated and unparseable dates go to Later. A date on or before today is
// Today (overdue folds in); strictly between today and today+7d is Week; a
// date exactly seven days out is already Later.
func Assign(date string, today time.Time) Bucket {
	if date == "" {
		return BucketLater
	}
	d, err := ParseLocalDate(date)
	if err != nil {
		return BucketLater
	}
	midnight := Midnight(today)
	switch {
	case !d.After(midnight):
		return BucketToday
	case d.Before(midnight.AddDate(0, 0, 7)):
		return BucketWeek
	default:
		return BucketLater
	}
}

// Grouped is the bucketed view of a task list.
type Grouped struct {
	Today []models.Task `json:"today"`
	Week  []models.Task `json:"week"`
	Later []models.Task `json:"later"`
}

// Group partitions tasks into the three buckets, preserving input order
// within each bucket. Every task lands in exactly one bucket.
func Group(tasks []models.Task, today time.Time) Grouped {
	grouped := Grouped{
		Today: make([]models.Task, 0),
		Week:  make([]models.Task, 0),
		Later: make([]models.Task, 0),
	}
	for _, t := range tasks {
		switch Assign(t.Date, today) {
		case BucketToday:
			grouped.Today = append(grouped.Today, t)
		case BucketWeek:
			grouped.Week = append(grouped.Week, t)
		default:
			grouped.Later = append(grouped.Later, t)
		}
	}
	return grouped
}

// FormatClock converts a 24-hour HH:MM string to a 12-hour display string,
// e.g. "14:30" becomes "2:30 PM". Malformed input is returned unchanged.
func FormatClock(hm string) string {
	parts := strings.SplitN(hm, ":", 2)
	if len(parts) != 2 {
		return hm
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return hm
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return hm
	}

	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	displayHours := hours % 12
	if displayHours == 0 {
		displayHours = 12
	}
	return fmt.Sprintf("%d:%02d %s", displayHours, minutes, period)
}

// FormatLongDate converts a YYYY-MM-DD string to a short display date,
// e.g. "2026-08-29" becomes "Aug 29, 2026". Malformed input is returned
// unchanged.
func FormatLongDate(date string) string {
	d, err := ParseLocalDate(date)
	if err != nil {
		return date
	}
	return d.Format("Jan 2, 2006")
}

// FormatWeekday returns the full weekday name for a YYYY-MM-DD string.
func FormatWeekday(date string) string {
	d, err := ParseLocalDate(date)
	if err != nil {
		return ""
	}
	return d.Format("Monday")
}
