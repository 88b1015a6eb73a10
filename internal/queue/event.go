// Package queue defines message payloads exchanged over the message broker
// along with the publisher and the background consumer.
package queue

// ReservationConfirmedEvent is published when a reservation is committed
// from a completed payment.  It contains enough information for
// downstream consumers to log, notify, or trigger analytics without
// querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID  uint64 `json:"reservation_id"`
	HouseID        uint64 `json:"house_id"`
	HouseName      string `json:"house_name"`
	UserID         uint64 `json:"user_id"`
	UserEmail      string `json:"user_email"`
	CheckinDate    string `json:"checkin_date"`
	CheckoutDate   string `json:"checkout_date"`
	NumberOfPeople int    `json:"number_of_people"`
	Amount         int64  `json:"amount"`
	ConfirmedAt    string `json:"confirmed_at"`
}
