package analytics

import (
	"fmt"
	"time"
)

// isoWeekLabel formats a timestamp as "YYYY-Www" per the ISO-8601
// Thursday rule, so ascending lexical order is chronological order.
func isoWeekLabel(t time.Time) string {
	year, week := t.UTC().ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}
