// model/booking.go
package model

import "time"

type Booking struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	ListingID   int64     `json:"listing_id"`
	BookingDate time.Time `json:"booking_date"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// CreateBookingReq represents booking payload; dates are YYYY-MM-DD.
// swagger:model CreateBookingReq
type CreateBookingReq struct {
	ListingID int64  `json:"listing_id" validate:"required,gt=0"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}
