package model

import "time"

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ShipAddr     string    `json:"ship_addr"`
	PostalCode   string    `json:"postal_code"`
	Balance      float64   `json:"balance"`
	CreatedAt    time.Time `json:"created_at"`
}

// model/user.go

// RegisterReq represents user registration payload
// swagger:model RegisterReq
type RegisterReq struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginReq represents login payload
// swagger:model LoginReq
type LoginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileReq carries the profile fields to change. Omitted fields are
// left unchanged, so an explicit empty string can clear the address.
// swagger:model UpdateProfileReq
type UpdateProfileReq struct {
	Name       *string `json:"name"`
	Email      *string `json:"email"`
	ShipAddr   *string `json:"ship_addr"`
	PostalCode *string `json:"postal_code"`
}
