// repository/booking/repo.go
package bookingrepo

import (
	"context"
	"database/sql"
	"time"

	"github.com/julian-wei213/327Qbnb/model"
	bookingsvc "github.com/julian-wei213/327Qbnb/service/booking"
)

type Store struct{ db *sql.DB }

var _ bookingsvc.Store = (*Store)(nil)

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Transact(ctx context.Context, fn func(bookingsvc.Repo) error) (err error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(&queries{tx: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListByUser(ctx context.Context, userID int64) ([]model.Booking, error) {
	const q = `
		SELECT id, user_id, listing_id, booking_date, start_date, end_date
		FROM bookings
		WHERE user_id = $1
		ORDER BY booking_date DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ListingID, &b.BookingDate, &b.StartDate, &b.EndDate); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

type queries struct{ tx *sql.Tx }

func (q *queries) FindListing(ctx context.Context, id int64) (*model.Listing, error) {
	// Lock the listing row so concurrent bookings of the same listing
	// serialize on the overlap check.
	const query = `
		SELECT id, title, description, price, last_modified_date, owner_id
		FROM listings
		WHERE id = $1
		FOR UPDATE`
	l := &model.Listing{}
	err := q.tx.QueryRowContext(ctx, query, id).
		Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.LastModifiedDate, &l.OwnerID)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (q *queries) FindUser(ctx context.Context, id int64) (*model.User, error) {
	u := &model.User{}
	err := q.tx.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, ship_addr, postal_code, balance, created_at
		FROM users
		WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ShipAddr, &u.PostalCode, &u.Balance, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (q *queries) HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error) {
	// Inclusive interval intersection on calendar days.
	const query = `
		SELECT EXISTS (
			SELECT 1
			FROM bookings
			WHERE listing_id = $1
			AND start_date <= $3
			AND end_date >= $2
		)`
	var exists bool
	err := q.tx.QueryRowContext(ctx, query, listingID, start, end).Scan(&exists)
	return exists, err
}

func (q *queries) Insert(ctx context.Context, b *model.Booking) error {
	return q.tx.QueryRowContext(ctx, `
		INSERT INTO bookings(user_id, listing_id, booking_date, start_date, end_date)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		b.UserID, b.ListingID, b.BookingDate, b.StartDate, b.EndDate,
	).Scan(&b.ID)
}
