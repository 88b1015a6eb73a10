package model

import "time"

// Reservation records a confirmed stay at a house.  A row is created
// exactly once per completed payment; there is no pending state in the
// database because the booking attempt lives entirely in the payment
// gateway's session until the completion event arrives.
//
// Fields:
//  ID             – primary key identifier.
//  HouseID        – house being reserved.
//  UserID         – user who made the reservation.
//  CheckinDate    – first night of the stay.
//  CheckoutDate   – day of departure (exclusive).
//  NumberOfPeople – party size validated against the house capacity.
//  Amount         – total price: nightly rate times night count.
//  PaymentRef     – gateway checkout-session id; unique per reservation.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Reservation struct {
	ID             uint64    // reservations.id
	HouseID        uint64    // reservations.house_id
	UserID         uint64    // reservations.user_id
	CheckinDate    time.Time // reservations.checkin_date
	CheckoutDate   time.Time // reservations.checkout_date
	NumberOfPeople int       // reservations.number_of_people
	Amount         int64     // reservations.amount
	PaymentRef     string    // reservations.payment_ref (unique)
	CreatedAt      time.Time // reservations.created_at
	UpdatedAt      time.Time // reservations.updated_at
}
