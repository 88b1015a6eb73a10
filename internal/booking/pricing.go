// Package booking holds the pure domain logic of the reservation flow:
// capacity and pricing rules plus the flash-carry store that moves a
// validated booking intent across the input→confirm redirect.
package booking

import "time"

// DateLayout is the canonical wire form for check-in and check-out dates.
const DateLayout = "2006-01-02"

// WithinCapacity reports whether a party of the given size fits the
// house capacity.  It fails closed: the caller must surface a
// field-level validation error when false is returned.
func WithinCapacity(numberOfPeople, capacity int) bool {
	return numberOfPeople <= capacity
}

// Amount computes the total price of a stay as nightly price times the
// number of whole nights between checkin and checkout.  Callers must
// guarantee checkout is strictly after checkin; this function does not
// validate ordering and will happily return zero or a negative value
// for a reversed range.
func Amount(checkin, checkout time.Time, nightlyPrice int64) int64 {
	nights := int64(checkout.Sub(checkin).Hours() / 24)
	return nightlyPrice * nights
}

// ParseDate parses a date string in the canonical YYYY-MM-DD form.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
