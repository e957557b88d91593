package listingsvc

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/julian-wei213/327Qbnb/model"
	"github.com/julian-wei213/327Qbnb/util/rules"
)

// Price and description bounds, plus the operational window: listing dates
// must fall strictly between WindowStart and WindowEnd.
const (
	MinPrice = 10.0
	MaxPrice = 10000.0

	MinDescriptionLen = 20
	MaxDescriptionLen = 2000
)

var (
	WindowStart = time.Date(2021, time.January, 2, 0, 0, 0, 0, time.UTC)
	WindowEnd   = time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC)
)

// errors used by controllers

type ErrCode string

const (
	ErrBadTitle       ErrCode = "BAD_TITLE"
	ErrBadDescription ErrCode = "BAD_DESCRIPTION"
	ErrBadPrice       ErrCode = "BAD_PRICE"
	ErrBadDate        ErrCode = "BAD_DATE"
	ErrOwnerNotFound  ErrCode = "OWNER_NOT_FOUND"
	ErrTitleTaken     ErrCode = "TITLE_TAKEN"
	ErrNotFound       ErrCode = "LISTING_NOT_FOUND"
	ErrNoFields       ErrCode = "NO_FIELDS"
	ErrPriceDecrease  ErrCode = "PRICE_DECREASE"
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

// Repo is the per-transaction capability set the listing lifecycle needs.
type Repo interface {
	FindByID(ctx context.Context, id int64) (*model.Listing, error)
	FindByTitle(ctx context.Context, title string) (*model.Listing, error)
	Insert(ctx context.Context, l *model.Listing) error
	Update(ctx context.Context, l *model.Listing) error
	FindOwner(ctx context.Context, userID int64) (*model.User, error)
}

type Store interface {
	Transact(ctx context.Context, fn func(Repo) error) error
	ListAll(ctx context.Context) ([]model.Listing, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]model.Listing, error)
}

// Patch carries the optional update fields; nil means leave unchanged.
type Patch struct {
	Title       *string
	Description *string
	Price       *float64
}

type Service interface {
	Create(ctx context.Context, title, description string, price float64, modifiedDate time.Time, ownerID int64) (*model.Listing, error)
	Update(ctx context.Context, listingID int64, patch Patch) (*model.Listing, error)
	Get(ctx context.Context, listingID int64) (*model.Listing, error)
	List(ctx context.Context) ([]model.Listing, error)
	MyListings(ctx context.Context, ownerID int64) ([]model.Listing, error)
}

type service struct {
	store Store
	now   func() time.Time
}

func New(store Store) Service {
	return &service{store: store, now: time.Now}
}

// Create validates in a fixed priority order: title, description, price,
// date window, owner, then title uniqueness inside the transaction.
func (s *service) Create(ctx context.Context, title, description string, price float64, modifiedDate time.Time, ownerID int64) (*model.Listing, error) {
	if !rules.IsValidTitle(title) {
		return nil, makeErr(ErrBadTitle)
	}
	if n := utf8.RuneCountInString(description); n < MinDescriptionLen || n > MaxDescriptionLen {
		return nil, makeErr(ErrBadDescription)
	}
	if utf8.RuneCountInString(description) <= utf8.RuneCountInString(title) {
		return nil, makeErr(ErrBadDescription)
	}
	if price < MinPrice || price > MaxPrice {
		return nil, makeErr(ErrBadPrice)
	}
	if !inWindow(modifiedDate) {
		return nil, makeErr(ErrBadDate)
	}

	l := &model.Listing{
		Title:            title,
		Description:      description,
		Price:            price,
		LastModifiedDate: dateOnly(modifiedDate),
		OwnerID:          ownerID,
	}

	err := s.store.Transact(ctx, func(r Repo) error {
		owner, ferr := r.FindOwner(ctx, ownerID)
		if ferr != nil {
			if errors.Is(ferr, sql.ErrNoRows) {
				return makeErr(ErrOwnerNotFound)
			}
			return ferr
		}
		if owner.Email == "" {
			return makeErr(ErrOwnerNotFound)
		}

		_, ferr = r.FindByTitle(ctx, title)
		switch {
		case ferr == nil:
			return makeErr(ErrTitleTaken)
		case !errors.Is(ferr, sql.ErrNoRows):
			return ferr
		}
		return r.Insert(ctx, l)
	})
	if err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return l, nil
}

// Update re-validates every provided field with the creation rules, rejects
// price decreases, and stamps last_modified_date with the current date. The
// stamp itself must land inside the operational window or the whole update
// fails.
func (s *service) Update(ctx context.Context, listingID int64, patch Patch) (*model.Listing, error) {
	if patch.Title == nil && patch.Description == nil && patch.Price == nil {
		return nil, makeErr(ErrNoFields)
	}
	if patch.Title != nil && !rules.IsValidTitle(*patch.Title) {
		return nil, makeErr(ErrBadTitle)
	}
	if patch.Description != nil {
		if n := utf8.RuneCountInString(*patch.Description); n < MinDescriptionLen || n > MaxDescriptionLen {
			return nil, makeErr(ErrBadDescription)
		}
	}
	if patch.Price != nil && (*patch.Price < MinPrice || *patch.Price > MaxPrice) {
		return nil, makeErr(ErrBadPrice)
	}

	stamp := dateOnly(s.now())
	if !inWindow(stamp) {
		return nil, makeErr(ErrBadDate)
	}

	var l *model.Listing
	err := s.store.Transact(ctx, func(r Repo) error {
		found, ferr := r.FindByID(ctx, listingID)
		if ferr != nil {
			if errors.Is(ferr, sql.ErrNoRows) {
				return makeErr(ErrNotFound)
			}
			return ferr
		}
		l = found

		title := l.Title
		if patch.Title != nil {
			title = *patch.Title
		}
		if patch.Description != nil && utf8.RuneCountInString(*patch.Description) <= utf8.RuneCountInString(title) {
			return makeErr(ErrBadDescription)
		}
		if patch.Price != nil && *patch.Price <= l.Price {
			return makeErr(ErrPriceDecrease)
		}

		if patch.Title != nil && *patch.Title != l.Title {
			other, terr := r.FindByTitle(ctx, *patch.Title)
			switch {
			case terr == nil && other.ID != l.ID:
				return makeErr(ErrTitleTaken)
			case terr != nil && !errors.Is(terr, sql.ErrNoRows):
				return terr
			}
		}

		if patch.Title != nil {
			l.Title = *patch.Title
		}
		if patch.Description != nil {
			l.Description = *patch.Description
		}
		if patch.Price != nil {
			l.Price = *patch.Price
		}
		l.LastModifiedDate = stamp
		return r.Update(ctx, l)
	})
	if err != nil {
		if derr := mapDuplicateErr(err); derr != nil {
			return nil, derr
		}
		return nil, err
	}
	return l, nil
}

func (s *service) Get(ctx context.Context, listingID int64) (*model.Listing, error) {
	var l *model.Listing
	err := s.store.Transact(ctx, func(r Repo) error {
		found, ferr := r.FindByID(ctx, listingID)
		if ferr != nil {
			return ferr
		}
		l = found
		return nil
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, makeErr(ErrNotFound)
		}
		return nil, err
	}
	return l, nil
}

func (s *service) List(ctx context.Context) ([]model.Listing, error) {
	return s.store.ListAll(ctx)
}

func (s *service) MyListings(ctx context.Context, ownerID int64) ([]model.Listing, error) {
	return s.store.ListByOwner(ctx, ownerID)
}

// inWindow reports whether d falls strictly inside the operational window.
func inWindow(d time.Time) bool {
	d = dateOnly(d)
	return d.After(WindowStart) && d.Before(WindowEnd)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// mapDuplicateErr turns a commit-time unique violation on the listings
// title index into the conflict code a concurrent creator should see.
func mapDuplicateErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		cn := strings.ToLower(pgErr.ConstraintName)
		msg := strings.ToLower(pgErr.Message)
		if strings.Contains(cn, "listings_title") || strings.Contains(msg, "title") {
			return makeErr(ErrTitleTaken)
		}
		return makeErr(ErrBadTitle)
	}
	return nil
}
