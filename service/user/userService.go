package usersvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/julian-wei213/327Qbnb/model"
	"github.com/julian-wei213/327Qbnb/util/hash"
	jwtutil "github.com/julian-wei213/327Qbnb/util/jwt"
	"github.com/julian-wei213/327Qbnb/util/rules"
)

// StartingBalance is credited to every new account.
const StartingBalance = 100.0

// errors used by controllers

type ErrCode string

const (
	ErrBadInput      ErrCode = "BAD_INPUT"
	ErrInvalidEmail  ErrCode = "INVALID_EMAIL"
	ErrWeakPassword  ErrCode = "WEAK_PASSWORD"
	ErrInvalidName   ErrCode = "INVALID_NAME"
	ErrInvalidPostal ErrCode = "INVALID_POSTAL_CODE"
	ErrEmailTaken    ErrCode = "EMAIL_TAKEN"
	ErrInvalidCreds  ErrCode = "INVALID_CREDENTIALS"
	ErrNotFound      ErrCode = "USER_NOT_FOUND"
	ErrBadAmount     ErrCode = "BAD_AMOUNT"
)

type codedError struct{ code ErrCode }

func (e codedError) Error() string { return string(e.code) }
func (e codedError) Code() ErrCode { return e.code }
func makeErr(c ErrCode) error      { return codedError{code: c} }

// Code extracts error code
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}

// Repo is the per-transaction capability set the user lifecycle needs.
// Missing rows surface as sql.ErrNoRows.
type Repo interface {
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Insert(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
}

// Store runs fn inside one serializable transaction so the uniqueness check
// and the insert cannot race a concurrent writer.
type Store interface {
	Transact(ctx context.Context, fn func(Repo) error) error
}

// ProfilePatch carries the optional profile fields; nil means leave the
// field unchanged.
type ProfilePatch struct {
	Name       *string
	Email      *string
	ShipAddr   *string
	PostalCode *string
}

type Service interface {
	Register(ctx context.Context, req model.RegisterReq) (*model.User, error)
	Login(ctx context.Context, req model.LoginReq) (*model.User, string, error)
	Profile(ctx context.Context, userID int64) (*model.User, error)

	UpdateName(ctx context.Context, userID int64, name string) (*model.User, error)
	UpdateEmail(ctx context.Context, userID int64, email string) (*model.User, error)
	UpdateAddress(ctx context.Context, userID int64, addr string) (*model.User, error)
	UpdatePostalCode(ctx context.Context, userID int64, code string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*model.User, error)

	// Deposit adds amount to the user's balance and returns the new balance.
	Deposit(ctx context.Context, userID int64, amount float64) (float64, error)
}

type service struct {
	store  Store
	secret string
}

func New(store Store, secret string) Service { return &service{store: store, secret: secret} }

// Register checks the rules in a fixed order so the first violated rule
// determines the outcome, then creates the user with the default balance.
func (s *service) Register(ctx context.Context, req model.RegisterReq) (*model.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, makeErr(ErrBadInput)
	}
	if !rules.IsValidEmail(req.Email) {
		return nil, makeErr(ErrInvalidEmail)
	}
	if !rules.IsComplexPassword(req.Password) {
		return nil, makeErr(ErrWeakPassword)
	}
	if !rules.IsValidUsername(req.Name) {
		return nil, makeErr(ErrInvalidName)
	}

	hashed, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Username:     req.Name,
		Email:        req.Email,
		PasswordHash: hashed,
		ShipAddr:     "",
		PostalCode:   "",
		Balance:      StartingBalance,
	}

	err = s.store.Transact(ctx, func(r Repo) error {
		_, ferr := r.FindByEmail(ctx, u.Email)
		switch {
		case ferr == nil:
			return makeErr(ErrEmailTaken)
		case !errors.Is(ferr, sql.ErrNoRows):
			return ferr
		}
		return r.Insert(ctx, u)
	})
	if err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return u, nil
}

// Login runs the same pre-checks as Register, then matches the stored
// credentials. The returned token carries the user's id and email.
func (s *service) Login(ctx context.Context, req model.LoginReq) (*model.User, string, error) {
	if req.Email == "" || req.Password == "" {
		return nil, "", makeErr(ErrBadInput)
	}
	if !rules.IsValidEmail(req.Email) {
		return nil, "", makeErr(ErrInvalidEmail)
	}
	if !rules.IsComplexPassword(req.Password) {
		return nil, "", makeErr(ErrWeakPassword)
	}

	var u *model.User
	err := s.store.Transact(ctx, func(r Repo) error {
		found, ferr := r.FindByEmail(ctx, req.Email)
		if ferr != nil {
			return ferr
		}
		u = found
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", makeErr(ErrInvalidCreds)
		}
		return nil, "", err
	}
	if !hash.Check(u.PasswordHash, req.Password) {
		return nil, "", makeErr(ErrInvalidCreds)
	}

	token, err := jwtutil.Issue(s.secret, u.ID, u.Email, 24)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (*model.User, error) {
	var u *model.User
	err := s.store.Transact(ctx, func(r Repo) error {
		found, ferr := r.FindByID(ctx, userID)
		if ferr != nil {
			return ferr
		}
		u = found
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateName(ctx context.Context, userID int64, name string) (*model.User, error) {
	return s.UpdateProfile(ctx, userID, ProfilePatch{Name: &name})
}

func (s *service) UpdateEmail(ctx context.Context, userID int64, email string) (*model.User, error) {
	return s.UpdateProfile(ctx, userID, ProfilePatch{Email: &email})
}

func (s *service) UpdateAddress(ctx context.Context, userID int64, addr string) (*model.User, error) {
	return s.UpdateProfile(ctx, userID, ProfilePatch{ShipAddr: &addr})
}

func (s *service) UpdatePostalCode(ctx context.Context, userID int64, code string) (*model.User, error) {
	return s.UpdateProfile(ctx, userID, ProfilePatch{PostalCode: &code})
}

// UpdateProfile applies the provided fields in one transaction. Every
// provided field must pass its rule or nothing is persisted.
func (s *service) UpdateProfile(ctx context.Context, userID int64, patch ProfilePatch) (*model.User, error) {
	if patch.Name != nil && !rules.IsValidUsername(*patch.Name) {
		return nil, makeErr(ErrInvalidName)
	}
	if patch.Email != nil && !rules.IsValidEmail(*patch.Email) {
		return nil, makeErr(ErrInvalidEmail)
	}
	if patch.PostalCode != nil && !rules.IsValidPostalCode(*patch.PostalCode) {
		return nil, makeErr(ErrInvalidPostal)
	}

	var u *model.User
	err := s.store.Transact(ctx, func(r Repo) error {
		found, ferr := r.FindByID(ctx, userID)
		if ferr != nil {
			return ferr
		}
		u = found

		if patch.Email != nil && *patch.Email != u.Email {
			other, eerr := r.FindByEmail(ctx, *patch.Email)
			switch {
			case eerr == nil && other.ID != u.ID:
				return makeErr(ErrEmailTaken)
			case eerr != nil && !errors.Is(eerr, sql.ErrNoRows):
				return eerr
			}
		}

		if patch.Name != nil {
			u.Username = *patch.Name
		}
		if patch.Email != nil {
			u.Email = *patch.Email
		}
		if patch.ShipAddr != nil {
			u.ShipAddr = *patch.ShipAddr
		}
		if patch.PostalCode != nil {
			u.PostalCode = *patch.PostalCode
		}
		return r.Update(ctx, u)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return u, nil
}

func (s *service) Deposit(ctx context.Context, userID int64, amount float64) (float64, error) {
	if amount <= 0 {
		return 0, makeErr(ErrBadAmount)
	}
	var balance float64
	err := s.store.Transact(ctx, func(r Repo) error {
		u, ferr := r.FindByID(ctx, userID)
		if ferr != nil {
			return ferr
		}
		u.Balance += amount
		balance = u.Balance
		return r.Update(ctx, u)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, makeErr(ErrNotFound)
		}
		return 0, err
	}
	return balance, nil
}

// mapDuplicateErr turns a commit-time unique violation on the users email
// index into the conflict code a concurrent register/update should see.
func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)
		if strings.Contains(cn, "users_email") || strings.Contains(msg, "email") {
			return makeErr(ErrEmailTaken)
		}
		return makeErr(ErrBadInput)
	}
	return nil
}
