package schedule

import (
	"reflect"
	"testing"
)

func TestSlotList_AddKeepsOrder(t *testing.T) {
	l := SlotList{"08:00", "13:00"}
	l = l.Add("09:30")

	want := SlotList{"08:00", "09:30", "13:00"}
	if !reflect.DeepEqual(l, want) {
		t.Errorf("expected %v, got %v", want, l)
	}
}

func TestSlotList_AddDuplicateIsNoOp(t *testing.T) {
	l := SlotList{"08:00", "09:30"}
	l = l.Add("08:00")

	if len(l) != 2 {
		t.Errorf("expected 2 slots, got %v", l)
	}
}

func TestSlotList_RemoveUnknownIsNoOp(t *testing.T) {
	l := SlotList{"08:00"}
	l = l.Remove("23:00")

	if len(l) != 1 {
		t.Errorf("expected 1 slot, got %v", l)
	}
}

func TestSlotList_UpdateResorts(t *testing.T) {
	l := SlotList{"08:00", "09:30", "13:00"}
	l = l.Update("09:30", "07:00")

	want := SlotList{"07:00", "08:00", "13:00"}
	if !reflect.DeepEqual(l, want) {
		t.Errorf("expected %v, got %v", want, l)
	}
}

func TestTimeCatalog_UnknownKind(t *testing.T) {
	c := NewTimeCatalog([]string{"08:00", "09:30"}, []string{"07:00", "07:30"})
	if err := c.Add(CatalogKind("vip"), "08:00"); err == nil {
		t.Fatal("expected error for unknown catalog kind")
	}
}

func TestTimeCatalog_SlotMayLiveInBothCatalogs(t *testing.T) {
	c := NewTimeCatalog([]string{"08:00"}, []string{"07:00"})
	if err := c.Add(CatalogFree, "08:00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := c.Snapshot()
	if !snap.Standard.Contains("08:00") || !snap.Free.Contains("08:00") {
		t.Errorf("expected 08:00 in both catalogs, got %+v", snap)
	}
}

func TestTimeCatalog_ReplaceNormalizes(t *testing.T) {
	c := NewTimeCatalog(nil, nil)
	c.Replace([]string{"13:00", "", "08:00", "13:00"}, nil)

	snap := c.Snapshot()
	want := SlotList{"08:00", "13:00"}
	if !reflect.DeepEqual(snap.Standard, want) {
		t.Errorf("expected %v, got %v", want, snap.Standard)
	}
}
