// Package main Qbnb marketplace API.
//
// @title           Qbnb Marketplace API
// @version         1.0
// @description     Marketplace service (users, listings, bookings, wallet).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/julian-wei213/327Qbnb/app/echoServer"
	authctrl "github.com/julian-wei213/327Qbnb/app/echoServer/controller/auth"
	bookingctrl "github.com/julian-wei213/327Qbnb/app/echoServer/controller/booking"
	listingctrl "github.com/julian-wei213/327Qbnb/app/echoServer/controller/listing"
	profilectrl "github.com/julian-wei213/327Qbnb/app/echoServer/controller/profile"
	walletctrl "github.com/julian-wei213/327Qbnb/app/echoServer/controller/wallet"
	"github.com/julian-wei213/327Qbnb/app/echoServer/validation"
	"github.com/julian-wei213/327Qbnb/config"
	bookingrepo "github.com/julian-wei213/327Qbnb/repository/booking"
	listingrepo "github.com/julian-wei213/327Qbnb/repository/listing"
	userrepo "github.com/julian-wei213/327Qbnb/repository/user"
	bookingsvc "github.com/julian-wei213/327Qbnb/service/booking"
	listingsvc "github.com/julian-wei213/327Qbnb/service/listing"
	usersvc "github.com/julian-wei213/327Qbnb/service/user"
	"github.com/julian-wei213/327Qbnb/util/database"
)

func main() {

	ctx := context.Background()
	cfg := config.Load(ctx)

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// stores
	ur := userrepo.New(db)
	lr := listingrepo.New(db)
	br := bookingrepo.New(db)

	// services
	us := usersvc.New(ur, cfg.JWTSecret)
	ls := listingsvc.New(lr)
	bs := bookingsvc.New(br)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: us, V: v, Log: log}
	profileC := &profilectrl.Controller{Svc: us, V: v, Log: log}
	listingC := &listingctrl.Controller{Svc: ls, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: bs, V: v, Log: log}
	walletC := &walletctrl.Controller{Svc: us, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:    authC,
		Profile: profileC,
		Listing: listingC,
		Booking: bookingC,
		Wallet:  walletC,

		JWTSecret: cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	slog.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
