package schedule

import (
	"testing"
	"time"

	"choretrack/choretrack/models"

	"github.com/stretchr/testify/assert"
)

func localDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestAssign(t *testing.T) {
	today := localDate(2026, time.March, 10)

	tests := []struct {
		name string
		date string
		want Bucket
	}{
		{"Undated", "", BucketLater},
		{"Malformed", "not-a-date", BucketLater},
		{"Today", "2026-03-10", BucketToday},
		{"Yesterday Is Overdue", "2026-03-09", BucketToday},
		{"Far Overdue", "2025-12-01", BucketToday},
		{"Tomorrow", "2026-03-11", BucketWeek},
		{"Six Days Out", "2026-03-16", BucketWeek},
		{"Exactly Seven Days Out", "2026-03-17", BucketLater},
		{"Far Future", "2026-06-01", BucketLater},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Assign(tt.date, today))
		})
	}
}

func TestAssignIgnoresTimeOfDay(t *testing.T) {
	// A late-evening reference must bucket the same as midnight
	evening := time.Date(2026, time.March, 10, 23, 45, 0, 0, time.Local)
	assert.Equal(t, BucketToday, Assign("2026-03-10", evening))
	assert.Equal(t, BucketWeek, Assign("2026-03-11", evening))
	assert.Equal(t, BucketLater, Assign("2026-03-17", evening))
}

func TestGroupIsAPartition(t *testing.T) {
	today := localDate(2026, time.March, 10)
	tasks := []models.Task{
		{Task: "overdue", Date: "2026-03-01"},
		{Task: "due today", Date: "2026-03-10"},
		{Task: "tomorrow", Date: "2026-03-11"},
		{Task: "next week boundary", Date: "2026-03-17"},
		{Task: "undated"},
	}

	grouped := Group(tasks, today)

	total := len(grouped.Today) + len(grouped.Week) + len(grouped.Later)
	assert.Equal(t, len(tasks), total)

	assert.Len(t, grouped.Today, 2)
	assert.Len(t, grouped.Week, 1)
	assert.Len(t, grouped.Later, 2)
}

func TestGroupPreservesOrder(t *testing.T) {
	today := localDate(2026, time.March, 10)
	tasks := []models.Task{
		{Task: "first", Date: "2026-03-09"},
		{Task: "second", Date: "2026-03-10"},
		{Task: "third", Date: "2026-03-08"},
	}

	grouped := Group(tasks, today)

	assert.Len(t, grouped.Today, 3)
	assert.Equal(t, "first", grouped.Today[0].Task)
	assert.Equal(t, "second", grouped.Today[1].Task)
	assert.Equal(t, "third", grouped.Today[2].Task)
}

func TestParseLocalDateStaysLocal(t *testing.T) {
	d, err := ParseLocalDate("2026-03-10")
	assert.NoError(t, err)
	assert.Equal(t, 2026, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 10, d.Day())
	assert.Equal(t, time.Local, d.Location())
	assert.Equal(t, 0, d.Hour())
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"14:30", "2:30 PM"},
		{"00:15", "12:15 AM"},
		{"12:05", "12:05 PM"},
		{"09:00", "9:00 AM"},
		{"23:59", "11:59 PM"},
		{"garbage", "garbage"},
		{"25:00", "25:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatClock(tt.in))
	}
}

func TestFormatLongDate(t *testing.T) {
	assert.Equal(t, "Mar 10, 2026", FormatLongDate("2026-03-10"))
	assert.Equal(t, "bogus", FormatLongDate("bogus"))
}
