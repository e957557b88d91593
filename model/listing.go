// model/listing.go
package model

import "time"

type Listing struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Price            float64   `json:"price"`
	LastModifiedDate time.Time `json:"last_modified_date"`
	OwnerID          int64     `json:"owner_id"`
}

// CreateListingReq represents listing creation payload
// swagger:model CreateListingReq
type CreateListingReq struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required"`
}

// UpdateListingReq carries the listing fields to change. Nil pointers mean
// "leave unchanged".
// swagger:model UpdateListingReq
type UpdateListingReq struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}
