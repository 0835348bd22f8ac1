package schedule

import "errors"

var (
	// ErrClientNameRequired is returned when a booking has no client name.
	ErrClientNameRequired = errors.New("client name is required")

	// ErrStaffRequired is returned when a booking has no staff assignment.
	ErrStaffRequired = errors.New("staff name is required")

	// ErrInvalidDate is returned when the date is not a valid YYYY-MM-DD day.
	ErrInvalidDate = errors.New("date must be a valid YYYY-MM-DD day")

	// ErrPrimaryTimeRequired is returned when a booking has no primary time.
	ErrPrimaryTimeRequired = errors.New("primary time is required")

	// ErrIncompleteSecondary is returned when only one of the secondary
	// procedure/time pair is set.
	ErrIncompleteSecondary = errors.New("secondary procedure and time must both be set or both be empty")

	// ErrSameTimeTwice is returned when an appointment's primary and
	// secondary times are equal.
	ErrSameTimeTwice = errors.New("primary and secondary times must differ")

	// ErrNegativeValue is returned when deposit or total value is negative.
	ErrNegativeValue = errors.New("monetary values must be non-negative")

	// ErrInvalidPaymentMethod is returned for unknown payment methods.
	ErrInvalidPaymentMethod = errors.New("payment method must be Pix, Card or Cash")

	// ErrRetroactiveDate is returned when a new booking targets a past day.
	ErrRetroactiveDate = errors.New("new bookings cannot target a past date")

	// ErrDayBlocked is returned when the target day is administratively closed.
	ErrDayBlocked = errors.New("day is blocked for new bookings")

	// ErrSlotConflict is returned when a requested time collides with an
	// existing booking for the same staff member and date.
	ErrSlotConflict = errors.New("time slot already booked for this staff member")

	// ErrAppointmentNotFound is returned when the appointment id is unknown.
	ErrAppointmentNotFound = errors.New("appointment not found")
)
