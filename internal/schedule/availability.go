package schedule

import (
	"fmt"
	"strings"
	"time"
)

// Partition splits one catalog's slots for a day.
type Partition struct {
	Standard []string `json:"standard"`
	Free     []string `json:"free"`
}

// DayAvailability is the computed slot picture for one calendar day.
//
// For a non-blocked day, Available and Occupied are disjoint and their union
// equals the full catalog. For a blocked day both partitions are empty: the
// day is simply not offered, independent of actual bookings. Callers must not
// read an empty blocked day as "fully booked".
type DayAvailability struct {
	Date         string        `json:"date"`
	Blocked      bool          `json:"blocked"`
	BlockReason  string        `json:"blockReason,omitempty"`
	Available    Partition     `json:"available"`
	Occupied     Partition     `json:"occupied"`
	Appointments []Appointment `json:"appointments"`
}

// ForDay computes the availability partitions for one date. The staff filter
// narrows the occupied set to one staff member's bookings; administrative
// time blocks always count as occupied regardless of staff.
func ForDay(date string, cat Catalog, blocks *BlockRegistry, store *Store, staff string) DayAvailability {
	if reason, blocked := blocks.DayBlock(date); blocked {
		return DayAvailability{
			Date:        date,
			Blocked:     true,
			BlockReason: reason,
			Available:   Partition{Standard: []string{}, Free: []string{}},
			Occupied:    Partition{Standard: []string{}, Free: []string{}},
		}
	}

	appts := store.ByDate(date, staff)
	taken := make(map[string]struct{})
	for _, a := range appts {
		for _, t := range a.Times() {
			taken[t] = struct{}{}
		}
	}
	for _, t := range blocks.BlockedTimes(date) {
		taken[t] = struct{}{}
	}

	availStd, occStd := splitSlots(cat.Standard, taken)
	availFree, occFree := splitSlots(cat.Free, taken)

	return DayAvailability{
		Date:         date,
		Available:    Partition{Standard: availStd, Free: availFree},
		Occupied:     Partition{Standard: occStd, Free: occFree},
		Appointments: appts,
	}
}

func splitSlots(catalog SlotList, taken map[string]struct{}) (available, occupied []string) {
	available = make([]string, 0, len(catalog))
	occupied = make([]string, 0, 4)
	for _, slot := range catalog {
		if _, ok := taken[slot]; ok {
			occupied = append(occupied, slot)
		} else {
			available = append(available, slot)
		}
	}
	return available, occupied
}

// ForMonth computes per-day availability for a whole calendar month, skipping
// the studio's weekly closed weekday. A non-empty query narrows the day list
// to days whose date, appointments (client, procedure or time) or available
// slots match it.
func ForMonth(year int, month time.Month, cat Catalog, blocks *BlockRegistry, store *Store, staff, query string, closedWeekday time.Weekday) []DayAvailability {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	out := make([]DayAvailability, 0, daysInMonth)
	for dayNum := 1; dayNum <= daysInMonth; dayNum++ {
		cur := time.Date(year, month, dayNum, 0, 0, 0, 0, time.UTC)
		if cur.Weekday() == closedWeekday {
			continue
		}
		date := fmt.Sprintf("%04d-%02d-%02d", year, int(month), dayNum)
		day := ForDay(date, cat, blocks, store, staff)
		if matchesQuery(day, query) {
			out = append(out, day)
		}
	}
	return out
}

func matchesQuery(day DayAvailability, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(day.Date, q) {
		return true
	}
	for _, a := range day.Appointments {
		fields := []string{a.ClientName, a.PrimaryProcedure, a.PrimaryTime, a.SecondaryProcedure, a.SecondaryTime}
		for _, f := range fields {
			if f != "" && strings.Contains(strings.ToLower(f), q) {
				return true
			}
		}
	}
	for _, slot := range day.Available.Standard {
		if strings.Contains(slot, q) {
			return true
		}
	}
	for _, slot := range day.Available.Free {
		if strings.Contains(slot, q) {
			return true
		}
	}
	return false
}
