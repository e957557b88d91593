// repository/listing/repo.go
package listingrepo

import (
	"context"
	"database/sql"

	"github.com/julian-wei213/327Qbnb/model"
	listingsvc "github.com/julian-wei213/327Qbnb/service/listing"
)

type Store struct{ db *sql.DB }

var _ listingsvc.Store = (*Store)(nil)

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Transact(ctx context.Context, fn func(listingsvc.Repo) error) (err error) {
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

func (s *Store) ListAll(ctx context.Context) ([]model.Listing, error) {
	const q = `
		SELECT id, title, description, price, last_modified_date, owner_id
		FROM listings
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func (s *Store) ListByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	const q = `
		SELECT id, title, description, price, last_modified_date, owner_id
		FROM listings
		WHERE owner_id = $1
		ORDER BY id`
	rows, err := s.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func scanListings(rows *sql.Rows) ([]model.Listing, error) {
	var out []model.Listing
	for rows.Next() {
		var l model.Listing
		if err := rows.Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.LastModifiedDate, &l.OwnerID); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type queries struct{ tx *sql.Tx }

func (q *queries) FindByID(ctx context.Context, id int64) (*model.Listing, error) {
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

func (q *queries) FindByTitle(ctx context.Context, title string) (*model.Listing, error) {
	const query = `
		SELECT id, title, description, price, last_modified_date, owner_id
		FROM listings
		WHERE title = $1`
	l := &model.Listing{}
	err := q.tx.QueryRowContext(ctx, query, title).
		Scan(&l.ID, &l.Title, &l.Description, &l.Price, &l.LastModifiedDate, &l.OwnerID)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (q *queries) Insert(ctx context.Context, l *model.Listing) error {
	return q.tx.QueryRowContext(ctx, `
		INSERT INTO listings(title, description, price, last_modified_date, owner_id)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING id`,
		l.Title, l.Description, l.Price, l.LastModifiedDate, l.OwnerID,
	).Scan(&l.ID)
}

func (q *queries) Update(ctx context.Context, l *model.Listing) error {
	_, err := q.tx.ExecContext(ctx, `
		UPDATE listings
		SET title = $2,
			description = $3,
			price = $4,
			last_modified_date = $5
		WHERE id = $1`,
		l.ID, l.Title, l.Description, l.Price, l.LastModifiedDate,
	)
	return err
}

func (q *queries) FindOwner(ctx context.Context, userID int64) (*model.User, error) {
	u := &model.User{}
	err := q.tx.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, ship_addr, postal_code, balance, created_at
		FROM users
		WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ShipAddr, &u.PostalCode, &u.Balance, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
