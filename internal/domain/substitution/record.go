// internal/domain/substitution/record.go
package substitution

import "time"

// DateLayout is the ISO calendar date format the portal expects and the bot prints.
const DateLayout = "2006-01-02"

// Mode selects how the portal groups a day's substitutions.
type Mode string

const (
	ModeClasses Mode = "classes" // Grouped by class, the only grouping the bot reads
)

// Record is the list of changes published for one class on one day.
// Rows keep the order in which the portal presents them.
type Record struct {
	ClassName string
	Rows      []string
}

// FilterByClass returns the records published for className, in their original order.
func FilterByClass(records []Record, className string) []Record {
	var matched []Record
	for _, r := range records {
		if r.ClassName == className {
			matched = append(matched, r)
		}
	}
	return matched
}

// DateOnly drops the clock part of t, keeping its location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// NextDay returns the calendar day after t.
func NextDay(t time.Time) time.Time {
	return DateOnly(t).AddDate(0, 0, 1)
}
