package marketplace

import "errors"

var (
	ErrUnauthenticated           = errors.New("sign in required")
	ErrSlotNotFound              = errors.New("parking slot not found")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrInvalidDuration           = errors.New("end time must be after start time")
	ErrPastStartTime             = errors.New("cannot book for past time")
	ErrOutsideAvailabilityWindow = errors.New("booking time is outside the slot's availability window")
	ErrSlotAlreadyBooked         = errors.New("slot is already booked for that time")
	ErrForbidden                 = errors.New("not allowed to change this booking")
)
