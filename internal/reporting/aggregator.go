// Package reporting computes the studio's revenue and expense aggregations:
// windowed counts and totals, weekday and week-of-month buckets for charts,
// and annual progress against the configured revenue target.
package reporting

import (
	"time"

	"github.com/agendaluz/studio-agenda/internal/expenses"
	"github.com/agendaluz/studio-agenda/internal/schedule"
)

// Window narrows records to a year and month, optionally a day of month and
// a 1-based week of month. Zero means "no filter" for Day and Week; they are
// independent axes, both checked when set.
type Window struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
	Week  int        `json:"week"`
}

// Matches reports whether a YYYY-MM-DD date falls inside the window.
func (w Window) Matches(date string) bool {
	t, err := time.Parse(schedule.DateLayout, date)
	if err != nil {
		return false
	}
	if t.Year() != w.Year || t.Month() != w.Month {
		return false
	}
	if w.Day != 0 && t.Day() != w.Day {
		return false
	}
	if w.Week != 0 && WeekOfMonth(t.Day()) != w.Week {
		return false
	}
	return true
}

// WeekOfMonth is the 1-based week bucket of a day of month: ceil(day/7).
// Day 1 through 7 is week 1, day 8 through 14 is week 2, and so on.
func WeekOfMonth(dayOfMonth int) int {
	return (dayOfMonth + 6) / 7
}

// Summary is the count and monetary total of the matching records.
type Summary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

// WeightedValue is an appointment's contribution to revenue reports: the
// combined deposit and total, scaled by the staff commission percent.
func WeightedValue(a schedule.Appointment, commissionPercent float64) float64 {
	return (a.TotalValue + a.Deposit) * commissionPercent / 100
}

// AppointmentSummary totals commission-weighted revenue for the appointments
// matching the staff filter and window. An empty staff filter matches all.
func AppointmentSummary(appts []schedule.Appointment, staff string, w Window, commissionPercent float64) Summary {
	var out Summary
	for _, a := range appts {
		if !matchesStaff(a, staff) || !w.Matches(a.Date) {
			continue
		}
		out.Count++
		out.Total += WeightedValue(a, commissionPercent)
	}
	return out
}

// ExpenseSummary totals raw expense values for the window. Expenses are
// studio-wide costs, deliberately not commission-weighted.
func ExpenseSummary(records []expenses.Expense, w Window) Summary {
	var out Summary
	for _, e := range records {
		if !w.Matches(e.Date) {
			continue
		}
		out.Count++
		out.Total += e.Value
	}
	return out
}

// WeekdayBuckets sums weighted revenue per day of week (0=Sunday..6=Saturday)
// for the window's year/month/week. The day filter does not apply here; the
// chart always shows the whole selected week or month.
func WeekdayBuckets(appts []schedule.Appointment, staff string, w Window, commissionPercent float64) [7]float64 {
	w.Day = 0
	var buckets [7]float64
	for _, a := range appts {
		if !matchesStaff(a, staff) || !w.Matches(a.Date) {
			continue
		}
		t, err := time.Parse(schedule.DateLayout, a.Date)
		if err != nil {
			continue
		}
		buckets[int(t.Weekday())] += WeightedValue(a, commissionPercent)
	}
	return buckets
}

// WeekOfMonthBuckets sums weighted revenue per week of month (0-based,
// ceil(day/7)-1) across the whole month, regardless of day/week filters.
// Week indices beyond the fifth bucket are discarded.
func WeekOfMonthBuckets(appts []schedule.Appointment, staff string, year int, month time.Month, commissionPercent float64) [5]float64 {
	var buckets [5]float64
	w := Window{Year: year, Month: month}
	for _, a := range appts {
		if !matchesStaff(a, staff) || !w.Matches(a.Date) {
			continue
		}
		t, err := time.Parse(schedule.DateLayout, a.Date)
		if err != nil {
			continue
		}
		idx := WeekOfMonth(t.Day()) - 1
		if idx >= 0 && idx < len(buckets) {
			buckets[idx] += WeightedValue(a, commissionPercent)
		}
	}
	return buckets
}

// AnnualTotal sums weighted revenue for a whole year, ignoring month, day and
// week filters.
func AnnualTotal(appts []schedule.Appointment, staff string, year int, commissionPercent float64) float64 {
	var total float64
	for _, a := range appts {
		if !matchesStaff(a, staff) {
			continue
		}
		t, err := time.Parse(schedule.DateLayout, a.Date)
		if err != nil || t.Year() != year {
			continue
		}
		total += WeightedValue(a, commissionPercent)
	}
	return total
}

// AnnualProgressPercent is the progress toward the annual revenue target,
// clamped to 100. An unset or non-positive target yields 0.
func AnnualProgressPercent(annualTotal, annualLimit float64) float64 {
	if annualLimit <= 0 {
		return 0
	}
	pct := annualTotal / annualLimit * 100
	if pct > 100 {
		return 100
	}
	return pct
}

func matchesStaff(a schedule.Appointment, staff string) bool {
	return staff == "" || a.StaffName == staff
}
