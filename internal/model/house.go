package model

import "time"

// House represents a rentable property as stored in the `houses` table.
// Price is the nightly rate in whole yen and Capacity is the maximum
// number of guests a booking may carry.  Houses are owned by catalog
// management; the booking flow only ever reads them.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the property.
//  Description – free-form description text.
//  Price       – nightly rate in whole currency units.
//  Capacity    – maximum number of occupants.
//  PostalCode  – postal code of the property.
//  Address     – street address.
//  PhoneNumber – contact phone number.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type House struct {
	ID          uint64    // houses.id
	Name        string    // houses.name
	Description string    // houses.description
	Price       int64     // houses.price
	Capacity    int       // houses.capacity
	PostalCode  string    // houses.postal_code
	Address     string    // houses.address
	PhoneNumber string    // houses.phone_number
	CreatedAt   time.Time // houses.created_at
	UpdatedAt   time.Time // houses.updated_at
}
