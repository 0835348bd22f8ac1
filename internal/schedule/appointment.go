package schedule

import (
	"time"
)

// DateLayout is the canonical calendar-day format used across the app.
const DateLayout = "2006-01-02"

// PaymentMethod enumerates how a client pays.
type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "Pix"
	PaymentCard PaymentMethod = "Card"
	PaymentCash PaymentMethod = "Cash"
)

// Valid reports whether the payment method is one of the known values.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentPix, PaymentCard, PaymentCash:
		return true
	}
	return false
}

// Appointment is one booking. Every appointment has a primary procedure/time
// pair; a second pair is optional but comes as a unit. The id is assigned at
// creation and stable across edits; CreatedAt is immutable.
type Appointment struct {
	ID                 string        `json:"id"`
	Date               string        `json:"date"`
	ClientName         string        `json:"clientName"`
	ContactNumber      string        `json:"contactNumber"`
	StaffName          string        `json:"staffName"`
	PrimaryProcedure   string        `json:"primaryProcedure"`
	PrimaryTime        string        `json:"primaryTime"`
	SecondaryProcedure string        `json:"secondaryProcedure,omitempty"`
	SecondaryTime      string        `json:"secondaryTime,omitempty"`
	Deposit            float64       `json:"deposit"`
	TotalValue         float64       `json:"totalValue"`
	PaymentMethod      PaymentMethod `json:"paymentMethod"`
	CreatedAt          time.Time     `json:"createdAt"`
}

// HasSecondary reports whether the appointment books a second service.
func (a *Appointment) HasSecondary() bool {
	return a.SecondaryTime != ""
}

// Times returns the occupied time values, one or two entries.
func (a *Appointment) Times() []string {
	if a.HasSecondary() {
		return []string{a.PrimaryTime, a.SecondaryTime}
	}
	return []string{a.PrimaryTime}
}

// Validate checks the record's own invariants. Conflicts against other
// appointments and block/date rules are the booking service's concern.
func (a *Appointment) Validate() error {
	if a.ClientName == "" {
		return ErrClientNameRequired
	}
	if a.StaffName == "" {
		return ErrStaffRequired
	}
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return ErrInvalidDate
	}
	if a.PrimaryTime == "" {
		return ErrPrimaryTimeRequired
	}
	if (a.SecondaryTime == "") != (a.SecondaryProcedure == "") {
		return ErrIncompleteSecondary
	}
	if a.HasSecondary() && a.SecondaryTime == a.PrimaryTime {
		return ErrSameTimeTwice
	}
	if a.Deposit < 0 || a.TotalValue < 0 {
		return ErrNegativeValue
	}
	if !a.PaymentMethod.Valid() {
		return ErrInvalidPaymentMethod
	}
	return nil
}
