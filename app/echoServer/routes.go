package echoServer

import (
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/julian-wei213/327Qbnb/app/echoServer/controller/auth"
	"github.com/julian-wei213/327Qbnb/app/echoServer/controller/booking"
	"github.com/julian-wei213/327Qbnb/app/echoServer/controller/listing"
	"github.com/julian-wei213/327Qbnb/app/echoServer/controller/profile"
	"github.com/julian-wei213/327Qbnb/app/echoServer/controller/wallet"
	"github.com/julian-wei213/327Qbnb/app/echoServer/jwtx"
)

type C struct {
	Auth      *auth.Controller
	Profile   *profile.Controller
	Listing   *listing.Controller
	Booking   *booking.Controller
	Wallet    *wallet.Controller
	JWTSecret string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Auth
	authed := e.Group("/v1")
	authed.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(c.JWTSecret),
		TokenLookup: "header:Authorization:Bearer ",
	}))
	// user_id extraction from the verified token
	authed.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			uid, err := jwtx.UserIDFromContext(ctx)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, echo.Map{"message": "unauthorized"})
			}
			ctx.Set("user_id", uid)
			return next(ctx)
		}
	})

	// Profile
	authed.GET("/users/profile", c.Profile.Get)
	authed.PUT("/users/profile", c.Profile.Update)

	// Wallet
	authed.POST("/wallet/deposits", c.Wallet.Deposit)

	// Listings
	authed.GET("/listings", c.Listing.List)
	authed.GET("/listings/my", c.Listing.MyListings)
	authed.POST("/listings", c.Listing.Create)
	authed.PUT("/listings/:id", c.Listing.Update)

	// Bookings
	authed.POST("/bookings", c.Booking.Create)
	authed.GET("/bookings/my", c.Booking.MyBookings)
}
