// Package settings materializes the studio's configuration from the flat
// key/value map the document store keeps, and encodes it back for writes.
// The wire shape is stringly (JSON blobs and comma-joined lists inside one
// map); this package decodes it once at the boundary into typed fields, with
// defaults applied per field rather than whole-object fallback.
package settings

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wire keys inside the settings map.
const (
	keyStudioName     = "studioName"
	keyProcedures     = "procedures"
	keyStandardSlots  = "standardSlots"
	keyFreeSlots      = "freeSlots"
	keyDayBlocks      = "dayBlocks"
	keyTimeBlocks     = "timeBlocks"
	keyPartners       = "partners"
	keyMasterHandle   = "masterUser"
	keyMasterPassword = "masterPassword"
	keyAnnualTarget   = "annualTarget"
	keyClosedWeekday  = "closedWeekday"
)

// Procedure is one entry of the studio's service catalog.
type Procedure struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Settings is the typed studio configuration.
type Settings struct {
	StudioName     string              `json:"studioName"`
	Procedures     []Procedure         `json:"procedures"`
	StandardSlots  []string            `json:"standardSlots"`
	FreeSlots      []string            `json:"freeSlots"`
	DayBlocks      map[string]string   `json:"dayBlocks"`
	TimeBlocks     map[string][]string `json:"timeBlocks"`
	Partners       []Partner           `json:"partners"`
	MasterHandle   string              `json:"masterHandle"`
	MasterPassword string              `json:"masterPassword"`
	AnnualTarget   float64             `json:"annualTarget"`
	ClosedWeekday  time.Weekday        `json:"closedWeekday"`
}

// Defaults returns the built-in configuration used when the backing store is
// unreachable or a field is missing, so the app stays usable offline.
func Defaults() Settings {
	return Settings{
		StudioName: "Studio",
		Procedures: []Procedure{
			{Name: "Manicure", Value: 50},
			{Name: "Pedicure", Value: 60},
			{Name: "Hair", Value: 120},
		},
		StandardSlots:  DefaultStandardSlots(),
		FreeSlots:      DefaultFreeSlots(),
		DayBlocks:      map[string]string{},
		TimeBlocks:     map[string][]string{},
		Partners:       []Partner{},
		MasterHandle:   "master",
		MasterPassword: "master",
		AnnualTarget:   0,
		ClosedWeekday:  time.Sunday,
	}
}

// DefaultStandardSlots is the out-of-the-box curated catalog.
func DefaultStandardSlots() []string {
	return []string{"08:00", "09:30", "13:00", "15:30", "18:00"}
}

// DefaultFreeSlots is the out-of-the-box half-hour catalog, 07:00 through 20:00.
func DefaultFreeSlots() []string {
	slots := make([]string, 0, 27)
	for h := 7; h <= 20; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h))
		if h < 20 {
			slots = append(slots, fmt.Sprintf("%02d:30", h))
		}
	}
	return slots
}

// Decode materializes typed settings from the flat map. Each field falls back
// to its default independently when the key is absent or its blob is corrupt.
func Decode(raw map[string]string) Settings {
	s := Defaults()
	if raw == nil {
		return s
	}

	if v, ok := raw[keyStudioName]; ok && v != "" {
		s.StudioName = v
	}
	if v, ok := raw[keyProcedures]; ok {
		var procedures []Procedure
		if err := json.Unmarshal([]byte(v), &procedures); err == nil {
			s.Procedures = procedures
		}
	}
	if v, ok := raw[keyStandardSlots]; ok {
		s.StandardSlots = splitSlots(v)
	}
	if v, ok := raw[keyFreeSlots]; ok {
		s.FreeSlots = splitSlots(v)
	}
	if v, ok := raw[keyDayBlocks]; ok {
		var days map[string]string
		if err := json.Unmarshal([]byte(v), &days); err == nil && days != nil {
			s.DayBlocks = days
		}
	}
	if v, ok := raw[keyTimeBlocks]; ok {
		var times map[string][]string
		if err := json.Unmarshal([]byte(v), &times); err == nil && times != nil {
			s.TimeBlocks = times
		}
	}
	if v, ok := raw[keyPartners]; ok {
		var partners []Partner
		if err := json.Unmarshal([]byte(v), &partners); err == nil {
			for i := range partners {
				partners[i] = NormalizePartner(partners[i])
			}
			s.Partners = partners
		}
	}
	if v, ok := raw[keyMasterHandle]; ok && v != "" {
		s.MasterHandle = v
	}
	if v, ok := raw[keyMasterPassword]; ok && v != "" {
		s.MasterPassword = v
	}
	if v, ok := raw[keyAnnualTarget]; ok {
		if target, err := strconv.ParseFloat(v, 64); err == nil {
			s.AnnualTarget = target
		}
	}
	if v, ok := raw[keyClosedWeekday]; ok {
		if wd, err := strconv.Atoi(v); err == nil && wd >= 0 && wd <= 6 {
			s.ClosedWeekday = time.Weekday(wd)
		}
	}
	return s
}

// Encode serializes the settings back into the flat wire map.
func (s Settings) Encode() map[string]string {
	procedures, _ := json.Marshal(s.Procedures)
	dayBlocks, _ := json.Marshal(s.DayBlocks)
	timeBlocks, _ := json.Marshal(s.TimeBlocks)
	partners, _ := json.Marshal(s.Partners)

	return map[string]string{
		keyStudioName:     s.StudioName,
		keyProcedures:     string(procedures),
		keyStandardSlots:  strings.Join(s.StandardSlots, ","),
		keyFreeSlots:      strings.Join(s.FreeSlots, ","),
		keyDayBlocks:      string(dayBlocks),
		keyTimeBlocks:     string(timeBlocks),
		keyPartners:       string(partners),
		keyMasterHandle:   s.MasterHandle,
		keyMasterPassword: s.MasterPassword,
		keyAnnualTarget:   strconv.FormatFloat(s.AnnualTarget, 'f', -1, 64),
		keyClosedWeekday:  strconv.Itoa(int(s.ClosedWeekday)),
	}
}

// PartnerByHandle finds a partner by login handle.
func (s Settings) PartnerByHandle(handle string) (Partner, bool) {
	for _, p := range s.Partners {
		if p.LoginHandle == handle {
			return p, true
		}
	}
	return Partner{}, false
}

func splitSlots(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
