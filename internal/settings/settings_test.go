package settings

import (
	"testing"
	"time"
)

func TestDecode_NilMapYieldsDefaults(t *testing.T) {
	s := Decode(nil)

	if s.MasterHandle != "master" || s.MasterPassword != "master" {
		t.Errorf("expected default master credentials, got %q/%q", s.MasterHandle, s.MasterPassword)
	}
	if s.ClosedWeekday != time.Sunday {
		t.Errorf("expected Sunday closed by default, got %v", s.ClosedWeekday)
	}
	if len(s.StandardSlots) == 0 || len(s.FreeSlots) == 0 {
		t.Error("expected default slot catalogs")
	}
}

func TestDefaultSlotCatalogs(t *testing.T) {
	standard := DefaultStandardSlots()
	if len(standard) != 5 || standard[0] != "08:00" || standard[4] != "18:00" {
		t.Errorf("unexpected standard catalog: %v", standard)
	}

	free := DefaultFreeSlots()
	if len(free) != 27 {
		t.Fatalf("expected 27 half-hour slots, got %d", len(free))
	}
	if free[0] != "07:00" || free[len(free)-1] != "20:00" {
		t.Errorf("expected 07:00 through 20:00, got %s..%s", free[0], free[len(free)-1])
	}

	s := Defaults()
	if len(s.StandardSlots) != len(standard) || len(s.FreeSlots) != len(free) {
		t.Errorf("defaults should carry both catalogs, got %d/%d slots", len(s.StandardSlots), len(s.FreeSlots))
	}
}

func TestDecode_CorruptBlobFallsBackPerField(t *testing.T) {
	s := Decode(map[string]string{
		"studioName":   "Studio Luz",
		"procedures":   "{not json",
		"annualTarget": "120000",
	})

	if s.StudioName != "Studio Luz" {
		t.Errorf("expected decoded studio name, got %q", s.StudioName)
	}
	if len(s.Procedures) == 0 {
		t.Error("corrupt procedures blob should fall back to defaults, not empty")
	}
	if s.AnnualTarget != 120000 {
		t.Errorf("expected annual target 120000, got %v", s.AnnualTarget)
	}
}

func TestDecode_PartnersAreNormalized(t *testing.T) {
	s := Decode(map[string]string{
		"partners": `[{"name":"José da Silva","password":"pw","commissionPercent":150}]`,
	})

	if len(s.Partners) != 1 {
		t.Fatalf("expected one partner, got %d", len(s.Partners))
	}
	p := s.Partners[0]
	if p.LoginHandle != "josedasilva" {
		t.Errorf("expected derived handle josedasilva, got %q", p.LoginHandle)
	}
	if p.CommissionPercent != 100 {
		t.Errorf("expected commission clamped to 100, got %v", p.CommissionPercent)
	}
}

func TestDecode_ClosedWeekdayBoundsChecked(t *testing.T) {
	s := Decode(map[string]string{"closedWeekday": "9"})
	if s.ClosedWeekday != time.Sunday {
		t.Errorf("out-of-range weekday must keep the default, got %v", s.ClosedWeekday)
	}

	s = Decode(map[string]string{"closedWeekday": "1"})
	if s.ClosedWeekday != time.Monday {
		t.Errorf("expected Monday, got %v", s.ClosedWeekday)
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := Defaults()
	original.StudioName = "Studio Luz"
	original.AnnualTarget = 90000
	original.ClosedWeekday = time.Monday
	original.DayBlocks = map[string]string{"2026-09-10": "holiday"}
	original.TimeBlocks = map[string][]string{"2026-09-11": {"08:00"}}
	original.Partners = []Partner{NormalizePartner(Partner{Name: "Ana", Password: "pw", CommissionPercent: 60})}

	decoded := Decode(original.Encode())

	if decoded.StudioName != original.StudioName {
		t.Errorf("studio name lost: %q", decoded.StudioName)
	}
	if decoded.AnnualTarget != original.AnnualTarget {
		t.Errorf("annual target lost: %v", decoded.AnnualTarget)
	}
	if decoded.ClosedWeekday != original.ClosedWeekday {
		t.Errorf("closed weekday lost: %v", decoded.ClosedWeekday)
	}
	if decoded.DayBlocks["2026-09-10"] != "holiday" {
		t.Errorf("day blocks lost: %v", decoded.DayBlocks)
	}
	if len(decoded.Partners) != 1 || decoded.Partners[0].LoginHandle != "ana" {
		t.Errorf("partners lost: %+v", decoded.Partners)
	}
}

func TestDeriveLoginHandle(t *testing.T) {
	cases := map[string]string{
		"José da Silva":  "josedasilva",
		"Ana":            "ana",
		"  Maria  Luísa": "marialuisa",
		"ÀGATHA":         "agatha",
	}
	for name, want := range cases {
		if got := DeriveLoginHandle(name); got != want {
			t.Errorf("DeriveLoginHandle(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestPartnerByHandle(t *testing.T) {
	s := Defaults()
	s.Partners = []Partner{
		NormalizePartner(Partner{Name: "Ana", Password: "pw", CommissionPercent: 60}),
	}

	if _, ok := s.PartnerByHandle("ana"); !ok {
		t.Error("expected to find partner by handle")
	}
	if _, ok := s.PartnerByHandle("bia"); ok {
		t.Error("unexpected partner match")
	}
}
