package repository

import (
	"context"
	"database/sql"
	"time"
)

// ReviewRepo provides access to house reviews.
type ReviewRepo struct {
	db *sql.DB
}

// NewReviewRepo returns a ReviewRepo bound to the given database.
func NewReviewRepo(db *sql.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// ReviewDetail is a review joined with its author's display name, as
// returned to clients.
type ReviewDetail struct {
	ID        uint64 `json:"id"`
	UserName  string `json:"user_name"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// Create inserts a review for a house and returns the new row ID.
func (r *ReviewRepo) Create(ctx context.Context, houseID, userID uint64, score int, comment string) (uint64, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO reviews (house_id, user_id, score, comment) VALUES (?,?,?,?)",
		houseID, userID, score, comment)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByHouse returns reviews for a house newest first with the
// author's name.  Limit and offset implement pagination.
func (r *ReviewRepo) ListByHouse(ctx context.Context, houseID uint64, limit, offset int) ([]ReviewDetail, error) {
	const q = `SELECT rv.id, u.name, rv.score, rv.comment, rv.created_at
	           FROM reviews rv
	           JOIN users u ON u.id = rv.user_id
	           WHERE rv.house_id = ?
	           ORDER BY rv.created_at DESC
	           LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, q, houseID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	reviews := make([]ReviewDetail, 0)
	for rows.Next() {
		var d ReviewDetail
		var createdAt time.Time
		if err := rows.Scan(&d.ID, &d.UserName, &d.Score, &d.Comment, &createdAt); err != nil {
			return nil, err
		}
		d.CreatedAt = createdAt.UTC().Format(time.RFC3339)
		reviews = append(reviews, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
