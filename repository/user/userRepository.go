package userrepo

import (
	"context"
	"database/sql"

	"github.com/julian-wei213/327Qbnb/model"
	usersvc "github.com/julian-wei213/327Qbnb/service/user"
)

// Store is the Postgres-backed user store. Every lifecycle operation runs
// through Transact so uniqueness checks and writes share one serializable
// transaction.
type Store struct{ db *sql.DB }

var _ usersvc.Store = (*Store)(nil)

func New(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Transact(ctx context.Context, fn func(usersvc.Repo) error) (err error) {
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

type queries struct{ tx *sql.Tx }

func (q *queries) FindByID(ctx context.Context, id int64) (*model.User, error) {
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

func (q *queries) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u := &model.User{}
	err := q.tx.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, ship_addr, postal_code, balance, created_at
		FROM users
		WHERE lower(email) = lower($1)`,
		email,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.ShipAddr, &u.PostalCode, &u.Balance, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (q *queries) Insert(ctx context.Context, u *model.User) error {
	return q.tx.QueryRowContext(ctx, `
		INSERT INTO users(username, email, password_hash, ship_addr, postal_code, balance)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at`,
		u.Username, u.Email, u.PasswordHash, u.ShipAddr, u.PostalCode, u.Balance,
	).Scan(&u.ID, &u.CreatedAt)
}

func (q *queries) Update(ctx context.Context, u *model.User) error {
	_, err := q.tx.ExecContext(ctx, `
		UPDATE users
		SET username = $2,
			email = $3,
			ship_addr = $4,
			postal_code = $5,
			balance = $6
		WHERE id = $1`,
		u.ID, u.Username, u.Email, u.ShipAddr, u.PostalCode, u.Balance,
	)
	return err
}
