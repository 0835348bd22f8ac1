package schedule

import (
	"sort"
	"sync"
)

// DefaultBlockReason is used when a day is blocked without an explicit reason.
const DefaultBlockReason = "Reserved by the studio"

// BlockRegistry tracks administrative closures: full-day blocks (date to
// reason) and per-date blocked times. The two axes are independent; a fully
// blocked day may also carry individual time blocks.
type BlockRegistry struct {
	mu    sync.RWMutex
	days  map[string]string
	times map[string][]string
}

// NewBlockRegistry creates an empty registry.
func NewBlockRegistry() *BlockRegistry {
	return &BlockRegistry{
		days:  make(map[string]string),
		times: make(map[string][]string),
	}
}

// Replace swaps both block maps wholesale, as when a fresh snapshot loads.
func (b *BlockRegistry) Replace(days map[string]string, times map[string][]string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.days = make(map[string]string, len(days))
	for d, reason := range days {
		b.days[d] = reason
	}
	b.times = make(map[string][]string, len(times))
	for d, list := range times {
		b.times[d] = normalizeBlockTimes(list)
	}
}

// BlockDay upserts a full-day block. An empty reason gets the default message.
// Existing appointments on the date are untouched.
func (b *BlockRegistry) BlockDay(date, reason string) {
	if reason == "" {
		reason = DefaultBlockReason
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.days[date] = reason
}

// UnblockDay removes the day block. Time blocks for the date are untouched.
func (b *BlockRegistry) UnblockDay(date string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.days, date)
}

// DayBlock returns the block reason for a date, if the day is blocked.
func (b *BlockRegistry) DayBlock(date string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	reason, ok := b.days[date]
	return reason, ok
}

// BlockTime reserves a single time on a date. Idempotent.
func (b *BlockRegistry) BlockTime(date, slot string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range b.times[date] {
		if t == slot {
			return
		}
	}
	list := append(b.times[date], slot)
	sort.Strings(list)
	b.times[date] = list
}

// UnblockTime releases a single blocked time on a date.
func (b *BlockRegistry) UnblockTime(date, slot string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.times[date]
	out := list[:0]
	for _, t := range list {
		if t != slot {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		delete(b.times, date)
		return
	}
	b.times[date] = out
}

// BlockedTimes returns a copy of the blocked times for a date, sorted.
func (b *BlockRegistry) BlockedTimes(date string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]string{}, b.times[date]...)
}

// Snapshot returns copies of both block maps for persistence.
func (b *BlockRegistry) Snapshot() (days map[string]string, times map[string][]string) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	days = make(map[string]string, len(b.days))
	for d, reason := range b.days {
		days[d] = reason
	}
	times = make(map[string][]string, len(b.times))
	for d, list := range b.times {
		times[d] = append([]string{}, list...)
	}
	return days, times
}

func normalizeBlockTimes(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, t := range list {
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
