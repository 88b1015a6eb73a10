// Package service contains the reservation commit service: the single
// writer of confirmed reservations.  It is driven exclusively by
// verified payment completion events, never by browser requests.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/iliyamo/house-reservation/internal/booking"
	"github.com/iliyamo/house-reservation/internal/payment"
	"github.com/iliyamo/house-reservation/internal/queue"
	"github.com/iliyamo/house-reservation/internal/repository"
)

// ErrBadMetadata indicates the event metadata was missing fields or
// carried values of the wrong shape.  Even verified events are treated
// as untrusted input, so this is checked before anything is used as an
// entity key.  Not retryable: a redelivery carries the same payload.
var ErrBadMetadata = errors.New("invalid event metadata")

// ErrDataConsistency indicates the house or user referenced by the
// event no longer exists.  The ids originated from data this system
// generated, so this is a fatal consistency failure for the event, not
// a transient condition a retry could fix.
var ErrDataConsistency = errors.New("event references unknown house or user")

// ReservationService turns a completed-payment event's metadata into a
// persisted, confirmed reservation.  Publish, when set, is called
// best-effort after a successful commit; its failure never fails the
// commit.
type ReservationService struct {
	DB           *sql.DB
	Houses       *repository.HouseRepo
	Users        *repository.UserRepo
	Reservations *repository.ReservationRepo
	Publish      func(ctx context.Context, ev queue.ReservationConfirmedEvent) error
}

// NewReservationService constructs a ReservationService.  All
// repositories must be non-nil; Publish may be nil.
func NewReservationService(db *sql.DB, houses *repository.HouseRepo, users *repository.UserRepo, reservations *repository.ReservationRepo) *ReservationService {
	if db == nil || houses == nil || users == nil || reservations == nil {
		panic("nil dependency passed to NewReservationService")
	}
	return &ReservationService{DB: db, Houses: houses, Users: users, Reservations: reservations}
}

// Commit validates the metadata of a completed checkout session,
// resolves the referenced house and user, and inserts the confirmed
// reservation in a single transaction keyed by the session id.  A
// redelivered event hits the unique payment_ref index and is treated
// as already committed: Commit logs it and returns nil so the webhook
// acknowledges the delivery without creating a second row.
func (s *ReservationService) Commit(ctx context.Context, sessionID string, meta map[string]string) error {
	if sessionID == "" {
		return fmt.Errorf("%w: empty session id", ErrBadMetadata)
	}
	rec, err := parseMetadata(meta)
	if err != nil {
		return err
	}
	rec.PaymentRef = sessionID

	house, err := s.Houses.GetByID(ctx, rec.HouseID)
	if err != nil {
		if errors.Is(err, repository.ErrHouseNotFound) {
			return fmt.Errorf("%w: house %d", ErrDataConsistency, rec.HouseID)
		}
		return err
	}
	user, err := s.Users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: user %d", ErrDataConsistency, rec.UserID)
		}
		return err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := s.Reservations.CreateTx(ctx, tx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			log.Printf("reservation: session %s already committed, ignoring redelivery", sessionID)
			return nil
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	if s.Publish != nil {
		ev := queue.ReservationConfirmedEvent{
			ReservationID:  rec.ID,
			HouseID:        house.ID,
			HouseName:      house.Name,
			UserID:         user.ID,
			UserEmail:      user.Email,
			CheckinDate:    rec.CheckinDate.Format(booking.DateLayout),
			CheckoutDate:   rec.CheckoutDate.Format(booking.DateLayout),
			NumberOfPeople: rec.NumberOfPeople,
			Amount:         rec.Amount,
			ConfirmedAt:    time.Now().UTC().Format(time.RFC3339),
		}
		if err := s.Publish(ctx, ev); err != nil {
			log.Printf("reservation: publish confirmed event failed: %v", err)
		}
	}
	return nil
}

// parseMetadata validates presence and shape of every field the commit
// needs.  Values arrive as strings from the gateway's metadata mapping.
func parseMetadata(meta map[string]string) (*repository.ReservationRecord, error) {
	houseID, err := strconv.ParseUint(meta[payment.MetaHouseID], 10, 64)
	if err != nil || houseID == 0 {
		return nil, fmt.Errorf("%w: house_id", ErrBadMetadata)
	}
	userID, err := strconv.ParseUint(meta[payment.MetaUserID], 10, 64)
	if err != nil || userID == 0 {
		return nil, fmt.Errorf("%w: user_id", ErrBadMetadata)
	}
	checkin, err := booking.ParseDate(meta[payment.MetaCheckinDate])
	if err != nil {
		return nil, fmt.Errorf("%w: checkin_date", ErrBadMetadata)
	}
	checkout, err := booking.ParseDate(meta[payment.MetaCheckoutDate])
	if err != nil {
		return nil, fmt.Errorf("%w: checkout_date", ErrBadMetadata)
	}
	if !checkout.After(checkin) {
		return nil, fmt.Errorf("%w: checkout not after checkin", ErrBadMetadata)
	}
	people, err := strconv.Atoi(meta[payment.MetaNumberOfPeople])
	if err != nil || people < 1 {
		return nil, fmt.Errorf("%w: number_of_people", ErrBadMetadata)
	}
	amount, err := strconv.ParseInt(meta[payment.MetaAmount], 10, 64)
	if err != nil || amount < 0 {
		return nil, fmt.Errorf("%w: amount", ErrBadMetadata)
	}
	return &repository.ReservationRecord{
		HouseID:        houseID,
		UserID:         userID,
		CheckinDate:    checkin,
		CheckoutDate:   checkout,
		NumberOfPeople: people,
		Amount:         amount,
	}, nil
}
