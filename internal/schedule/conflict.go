package schedule

// Candidate is a booking attempt checked for slot collisions before it is
// accepted. ExcludeID identifies the appointment being edited, so a record
// never conflicts with its own previous times.
type Candidate struct {
	Date          string `json:"date"`
	StaffName     string `json:"staffName"`
	PrimaryTime   string `json:"primaryTime"`
	SecondaryTime string `json:"secondaryTime,omitempty"`
	ExcludeID     string `json:"excludeId,omitempty"`
}

// Conflict flags each of the candidate's slots separately so the UI can point
// at the offending field. Callers combine them with Any to gate submission.
type Conflict struct {
	Primary   bool `json:"primary"`
	Secondary bool `json:"secondary"`
}

// Any reports whether either slot conflicts.
func (c Conflict) Any() bool {
	return c.Primary || c.Secondary
}

// DetectConflict scans existing appointments for the candidate's date and
// staff member and flags each candidate slot that equals any existing
// primary or secondary time. A candidate whose own primary and secondary
// times are equal is in self-conflict; both flags are raised.
//
// A conflict is a soft validation failure: it blocks submission, it is never
// auto-resolved.
func DetectConflict(cand Candidate, existing []Appointment) Conflict {
	var out Conflict

	if cand.SecondaryTime != "" && cand.SecondaryTime == cand.PrimaryTime {
		return Conflict{Primary: true, Secondary: true}
	}

	for _, a := range existing {
		if a.ID == cand.ExcludeID || a.Date != cand.Date || a.StaffName != cand.StaffName {
			continue
		}
		for _, taken := range a.Times() {
			if cand.PrimaryTime != "" && taken == cand.PrimaryTime {
				out.Primary = true
			}
			if cand.SecondaryTime != "" && taken == cand.SecondaryTime {
				out.Secondary = true
			}
		}
	}
	return out
}
