// Package schedule implements the studio's availability and booking engine:
// time-slot catalogs, administrative blocks, the appointment store, and the
// pure availability/conflict computations over them.
package schedule

import (
	"fmt"
	"sort"
	"sync"
)

// CatalogKind selects one of the two slot catalogs.
type CatalogKind string

const (
	// CatalogStandard is the curated set of preferred start times.
	CatalogStandard CatalogKind = "standard"
	// CatalogFree is the denser half-hour fallback catalog.
	CatalogFree CatalogKind = "free"
)

// Valid reports whether the kind names a known catalog.
func (k CatalogKind) Valid() bool {
	return k == CatalogStandard || k == CatalogFree
}

// SlotList is an ascending list of HH:MM wall-clock times. Zero-padded HH:MM
// sorts lexicographically in chronological order.
type SlotList []string

// Add inserts a slot keeping the list sorted. Duplicates are a no-op.
func (l SlotList) Add(slot string) SlotList {
	if l.Contains(slot) {
		return l
	}
	out := append(append(SlotList{}, l...), slot)
	sort.Strings(out)
	return out
}

// Remove deletes an exact match. Unknown slots are a no-op.
func (l SlotList) Remove(slot string) SlotList {
	out := make(SlotList, 0, len(l))
	for _, s := range l {
		if s != slot {
			out = append(out, s)
		}
	}
	return out
}

// Update replaces oldSlot with newSlot and re-sorts.
func (l SlotList) Update(oldSlot, newSlot string) SlotList {
	return l.Remove(oldSlot).Add(newSlot)
}

// Contains reports whether slot is present.
func (l SlotList) Contains(slot string) bool {
	for _, s := range l {
		if s == slot {
			return true
		}
	}
	return false
}

// Catalog is an immutable snapshot of both slot catalogs. A slot string may
// legally appear in both lists at once; callers tolerate the overlap.
type Catalog struct {
	Standard SlotList `json:"standard"`
	Free     SlotList `json:"free"`
}

// TimeCatalog is the mutable, shared holder of the studio's slot catalogs.
type TimeCatalog struct {
	mu       sync.RWMutex
	standard SlotList
	free     SlotList
}

// NewTimeCatalog builds a catalog holder from the configured lists.
func NewTimeCatalog(standard, free []string) *TimeCatalog {
	c := &TimeCatalog{}
	c.Replace(standard, free)
	return c
}

// Replace swaps both catalogs wholesale, re-sorting and deduplicating.
func (c *TimeCatalog) Replace(standard, free []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.standard = normalizeSlots(standard)
	c.free = normalizeSlots(free)
}

// Add inserts a slot into the named catalog. Duplicates are a no-op.
func (c *TimeCatalog) Add(kind CatalogKind, slot string) error {
	return c.mutate(kind, func(l SlotList) SlotList { return l.Add(slot) })
}

// Remove deletes an exact slot match from the named catalog.
func (c *TimeCatalog) Remove(kind CatalogKind, slot string) error {
	return c.mutate(kind, func(l SlotList) SlotList { return l.Remove(slot) })
}

// Update replaces a slot in the named catalog, keeping it sorted.
func (c *TimeCatalog) Update(kind CatalogKind, oldSlot, newSlot string) error {
	return c.mutate(kind, func(l SlotList) SlotList { return l.Update(oldSlot, newSlot) })
}

func (c *TimeCatalog) mutate(kind CatalogKind, fn func(SlotList) SlotList) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch kind {
	case CatalogStandard:
		c.standard = fn(c.standard)
	case CatalogFree:
		c.free = fn(c.free)
	default:
		return fmt.Errorf("schedule: unknown catalog %q", kind)
	}
	return nil
}

// Snapshot returns a copy of both catalogs for pure computations.
func (c *TimeCatalog) Snapshot() Catalog {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Catalog{
		Standard: append(SlotList{}, c.standard...),
		Free:     append(SlotList{}, c.free...),
	}
}

func normalizeSlots(slots []string) SlotList {
	out := SlotList{}
	for _, s := range slots {
		if s != "" {
			out = out.Add(s)
		}
	}
	return out
}
