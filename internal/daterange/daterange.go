// Package daterange computes calendar month windows for report generation.
package daterange

import "time"

// ISO is the date layout used for all range values (YYYY-MM-DD).
const ISO = "2006-01-02"

// Range is a closed interval of calendar days within a single month.
type Range struct {
	Start time.Time
	End   time.Time
}

// PreviousMonth returns the range covering the full calendar month before
// the reference date's month. January references roll over to December of
// the prior year. Month lengths (including leap-year February) come from
// time.Date normalization, so the result is correct for any valid date.
func PreviousMonth(ref time.Time) Range {
	firstOfCurrent := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC)
	return Range{
		Start: firstOfCurrent.AddDate(0, -1, 0),
		End:   firstOfCurrent.AddDate(0, 0, -1),
	}
}

// StartString returns the first day of the range as YYYY-MM-DD.
func (r Range) StartString() string {
	return r.Start.Format(ISO)
}

// EndString returns the last day of the range as YYYY-MM-DD.
func (r Range) EndString() string {
	return r.End.Format(ISO)
}

// EndOfDay returns the last instant of the range's final day, for APIs that
// filter on timestamps rather than dates.
func (r Range) EndOfDay() time.Time {
	return r.End.Add(24*time.Hour - time.Second)
}

// Contains reports whether t falls within the range, inclusive on both ends.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.EndOfDay().Add(time.Second))
}
