package repository // repository holds data access logic for domain entities

import (
	"context"      // context is used to manage deadlines and cancellation
	"database/sql" // sql provides DB primitives
	"errors"       // errors package allows sentinel error definitions

	"github.com/iliyamo/house-reservation/internal/model"
)

// ErrHouseNotFound is returned when a house lookup fails.
var ErrHouseNotFound = errors.New("house not found")

// HouseRepo provides read access to the houses catalog.  The booking
// flow never mutates houses; catalog management owns writes.
type HouseRepo struct {
	db *sql.DB // db is the underlying database connection
}

// NewHouseRepo constructs a HouseRepo with the given DB handle.
func NewHouseRepo(db *sql.DB) *HouseRepo {
	return &HouseRepo{db: db}
}

// DB exposes the underlying handle so handlers can open transactions
// spanning multiple repositories.
func (r *HouseRepo) DB() *sql.DB { return r.db }

// GetByID retrieves a house by its ID.  It returns ErrHouseNotFound
// when no row is found.
func (r *HouseRepo) GetByID(ctx context.Context, id uint64) (*model.House, error) {
	const q = `SELECT id, name, description, price, capacity, postal_code, address, phone_number, created_at, updated_at
	           FROM houses WHERE id = ?`
	var h model.House
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&h.ID, &h.Name, &h.Description, &h.Price, &h.Capacity,
		&h.PostalCode, &h.Address, &h.PhoneNumber, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHouseNotFound
		}
		return nil, err
	}
	return &h, nil
}

// List returns houses ordered by creation time descending.  When
// keyword is non-empty it is matched against the name and address
// columns with LIKE.  Limit and offset implement pagination; limit is
// clamped to a sane range by the caller.
func (r *HouseRepo) List(ctx context.Context, keyword string, limit, offset int) ([]model.House, error) {
	q := `SELECT id, name, description, price, capacity, postal_code, address, phone_number, created_at, updated_at
	      FROM houses`
	args := make([]interface{}, 0, 4)
	if keyword != "" {
		q += ` WHERE name LIKE ? OR address LIKE ?`
		pattern := "%" + keyword + "%"
		args = append(args, pattern, pattern)
	}
	q += ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	houses := make([]model.House, 0)
	for rows.Next() {
		var h model.House
		if err := rows.Scan(
			&h.ID, &h.Name, &h.Description, &h.Price, &h.Capacity,
			&h.PostalCode, &h.Address, &h.PhoneNumber, &h.CreatedAt, &h.UpdatedAt,
		); err != nil {
			return nil, err
		}
		houses = append(houses, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return houses, nil
}
