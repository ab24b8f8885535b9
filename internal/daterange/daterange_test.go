package daterange

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestPreviousMonth(t *testing.T) {
	tests := []struct {
		name      string
		ref       time.Time
		wantStart string
		wantEnd   string
	}{
		{"leap year February", date(2024, time.March, 15), "2024-02-01", "2024-02-29"},
		{"non-leap February", date(2023, time.March, 15), "2023-02-01", "2023-02-28"},
		{"January rolls over to prior December", date(2024, time.January, 10), "2023-12-01", "2023-12-31"},
		{"31st reference into 30-day month", date(2024, time.May, 31), "2024-04-01", "2024-04-30"},
		{"mid-year 31-day month", date(2024, time.August, 1), "2024-07-01", "2024-07-31"},
		{"century non-leap year", date(2100, time.March, 1), "2100-02-01", "2100-02-28"},
		{"400-year leap rule", date(2000, time.March, 1), "2000-02-01", "2000-02-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := PreviousMonth(tt.ref)
			if got := r.StartString(); got != tt.wantStart {
				t.Errorf("PreviousMonth(%s).Start = %s, want %s", tt.ref.Format(ISO), got, tt.wantStart)
			}
			if got := r.EndString(); got != tt.wantEnd {
				t.Errorf("PreviousMonth(%s).End = %s, want %s", tt.ref.Format(ISO), got, tt.wantEnd)
			}
		})
	}
}

func TestPreviousMonthProperties(t *testing.T) {
	// Walk every month across a span including leap years, century
	// boundaries, and year rollovers.
	for year := 1999; year <= 2101; year++ {
		for month := time.January; month <= time.December; month++ {
			ref := date(year, month, 15)
			r := PreviousMonth(ref)

			if r.Start.Day() != 1 {
				t.Errorf("PreviousMonth(%v).Start.Day() = %d, want 1", ref, r.Start.Day())
			}
			if r.End.Before(r.Start) {
				t.Errorf("PreviousMonth(%v): End %v before Start %v", ref, r.End, r.Start)
			}
			if r.Start.Month() != r.End.Month() || r.Start.Year() != r.End.Year() {
				t.Errorf("PreviousMonth(%v): range spans months (%v .. %v)", ref, r.Start, r.End)
			}

			// End must be the true last day: the next day is the 1st.
			next := r.End.AddDate(0, 0, 1)
			if next.Day() != 1 {
				t.Errorf("PreviousMonth(%v).End = %v is not the last day of its month", ref, r.End)
			}

			// Start's month is exactly one before the reference month.
			wantMonth := month - 1
			wantYear := year
			if month == time.January {
				wantMonth = time.December
				wantYear = year - 1
			}
			if r.Start.Month() != wantMonth || r.Start.Year() != wantYear {
				t.Errorf("PreviousMonth(%v).Start = %v, want %v %d", ref, r.Start, wantMonth, wantYear)
			}
		}
	}
}

func TestPreviousMonthIdempotent(t *testing.T) {
	ref := date(2024, time.March, 15)
	first := PreviousMonth(ref)
	second := PreviousMonth(ref)
	if !first.Start.Equal(second.Start) || !first.End.Equal(second.End) {
		t.Errorf("PreviousMonth not deterministic: %v vs %v", first, second)
	}
}

func TestPreviousMonthIndependentOfReferenceDay(t *testing.T) {
	// Every day of March must produce the same February range.
	want := PreviousMonth(date(2024, time.March, 1))
	for day := 2; day <= 31; day++ {
		got := PreviousMonth(date(2024, time.March, day))
		if !got.Start.Equal(want.Start) || !got.End.Equal(want.End) {
			t.Errorf("day %d: got %v..%v, want %v..%v", day, got.Start, got.End, want.Start, want.End)
		}
	}
}

func TestEndOfDay(t *testing.T) {
	r := PreviousMonth(date(2024, time.March, 15))
	want := time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC)
	if !r.EndOfDay().Equal(want) {
		t.Errorf("EndOfDay() = %v, want %v", r.EndOfDay(), want)
	}
}

func TestContains(t *testing.T) {
	r := PreviousMonth(date(2024, time.March, 15))

	tests := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"first instant", date(2024, time.February, 1), true},
		{"mid range", time.Date(2024, time.February, 14, 12, 0, 0, 0, time.UTC), true},
		{"last day evening", time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC), true},
		{"before range", time.Date(2024, time.January, 31, 23, 59, 59, 0, time.UTC), false},
		{"after range", date(2024, time.March, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.t); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}
