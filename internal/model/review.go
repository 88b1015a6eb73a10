package model

import "time"

// Review is a guest's rating of a house, stored in the `reviews` table.
//
// Fields:
//  ID        – primary key identifier.
//  HouseID   – house being reviewed.
//  UserID    – author of the review.
//  Score     – rating from 1 to 5.
//  Comment   – free-form review text.
//  CreatedAt – creation timestamp.
type Review struct {
	ID        uint64    // reviews.id
	HouseID   uint64    // reviews.house_id
	UserID    uint64    // reviews.user_id
	Score     int       // reviews.score
	Comment   string    // reviews.comment
	CreatedAt time.Time // reviews.created_at
}
