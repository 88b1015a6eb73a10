package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReservationRepo provides access to confirmed reservations.  A row is
// written exactly once per completed payment; the gateway session id
// stored in payment_ref carries a UNIQUE index so a redelivered
// completion event cannot create a second row.  All timestamp fields
// are assumed to be stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// ReservationRecord mirrors the schema of the reservations table.  It
// is used internally by the repository when constructing or scanning
// rows.  Business logic should use the model.Reservation type instead.
type ReservationRecord struct {
	ID             uint64
	HouseID        uint64
	UserID         uint64
	CheckinDate    time.Time
	CheckoutDate   time.Time
	NumberOfPeople int
	Amount         int64
	PaymentRef     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// CreateTx inserts a confirmed reservation within the scope of an
// existing transaction.  It populates the generated ID on the provided
// record.  The caller must commit or rollback the transaction.  A
// unique-key collision on payment_ref is reported as ErrDuplicate so
// the commit service can treat gateway redeliveries as already done.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, rec *ReservationRecord) error {
	const q = `INSERT INTO reservations (house_id, user_id, checkin_date, checkout_date, number_of_people, amount, payment_ref)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q,
		rec.HouseID, rec.UserID,
		rec.CheckinDate.Format("2006-01-02"), rec.CheckoutDate.Format("2006-01-02"),
		rec.NumberOfPeople, rec.Amount, rec.PaymentRef,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicate
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	rec.ID = uint64(id)
	return nil
}

// ReservationDetail pairs a reservation with the display name of the
// booked house.  It is returned by ListByUser for the reservations
// page.
type ReservationDetail struct {
	ID             uint64 `json:"id"`
	HouseID        uint64 `json:"house_id"`
	HouseName      string `json:"house_name"`
	CheckinDate    string `json:"checkin_date"`
	CheckoutDate   string `json:"checkout_date"`
	NumberOfPeople int    `json:"number_of_people"`
	Amount         int64  `json:"amount"`
	CreatedAt      string `json:"created_at"`
}

// ListByUser returns the user's reservations newest first, joined with
// house names.  Limit and offset implement pagination.  When no
// reservations exist an empty slice is returned.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64, limit, offset int) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.house_id, h.name, r.checkin_date, r.checkout_date,
	                  r.number_of_people, r.amount, r.created_at
	           FROM reservations r
	           JOIN houses h ON h.id = r.house_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var checkin, checkout, createdAt time.Time
		if err := rows.Scan(
			&d.ID, &d.HouseID, &d.HouseName, &checkin, &checkout,
			&d.NumberOfPeople, &d.Amount, &createdAt,
		); err != nil {
			return nil, err
		}
		d.CheckinDate = checkin.Format("2006-01-02")
		d.CheckoutDate = checkout.Format("2006-01-02")
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// CountByPaymentRef reports how many reservations exist for a payment
// reference.  Used by operational checks; the UNIQUE index keeps the
// answer at zero or one.
func (r *ReservationRepo) CountByPaymentRef(ctx context.Context, paymentRef string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reservations WHERE payment_ref = ?", paymentRef).Scan(&n)
	return n, err
}
