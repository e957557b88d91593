package bookingsvc

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/julian-wei213/327Qbnb/model"
)

// errors used by controllers

type ErrCode string

const (
	ErrBadDates        ErrCode = "BAD_DATES"
	ErrListingNotFound ErrCode = "LISTING_NOT_FOUND"
	ErrUserNotFound    ErrCode = "USER_NOT_FOUND"
	ErrOwnBooking      ErrCode = "OWN_BOOKING"
	ErrLowBalance      ErrCode = "LOW_BALANCE"
	ErrDateConflict    ErrCode = "DATE_CONFLICT"
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

// Repo is the per-transaction capability set the booking lifecycle needs.
type Repo interface {
	FindListing(ctx context.Context, id int64) (*model.Listing, error)
	FindUser(ctx context.Context, id int64) (*model.User, error)
	HasOverlap(ctx context.Context, listingID int64, start, end time.Time) (bool, error)
	Insert(ctx context.Context, b *model.Booking) error
}

type Store interface {
	Transact(ctx context.Context, fn func(Repo) error) error
	ListByUser(ctx context.Context, userID int64) ([]model.Booking, error)
}

type Service interface {
	Create(ctx context.Context, userID, listingID int64, startDate, endDate time.Time) (*model.Booking, error)
	MyBookings(ctx context.Context, userID int64) ([]model.Booking, error)
}

type service struct {
	store Store
	now   func() time.Time
}

func New(store Store) Service { return &service{store: store, now: time.Now} }

// Create books a listing for [startDate, endDate]. Two bookings of the same
// listing conflict when their date ranges share at least one calendar day,
// endpoints included.
func (s *service) Create(ctx context.Context, userID, listingID int64, startDate, endDate time.Time) (*model.Booking, error) {
	start := dateOnly(startDate)
	end := dateOnly(endDate)
	if start.After(end) {
		return nil, makeErr(ErrBadDates)
	}

	b := &model.Booking{
		UserID:      userID,
		ListingID:   listingID,
		BookingDate: s.now().UTC(),
		StartDate:   start,
		EndDate:     end,
	}

	err := s.store.Transact(ctx, func(r Repo) error {
		l, ferr := r.FindListing(ctx, listingID)
		if ferr != nil {
			if errors.Is(ferr, sql.ErrNoRows) {
				return makeErr(ErrListingNotFound)
			}
			return ferr
		}
		if l.OwnerID == userID {
			return makeErr(ErrOwnBooking)
		}

		u, ferr := r.FindUser(ctx, userID)
		if ferr != nil {
			if errors.Is(ferr, sql.ErrNoRows) {
				return makeErr(ErrUserNotFound)
			}
			return ferr
		}
		if l.Price > u.Balance {
			return makeErr(ErrLowBalance)
		}

		overlap, ferr := r.HasOverlap(ctx, listingID, start, end)
		if ferr != nil {
			return ferr
		}
		if overlap {
			return makeErr(ErrDateConflict)
		}
		return r.Insert(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) MyBookings(ctx context.Context, userID int64) ([]model.Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
