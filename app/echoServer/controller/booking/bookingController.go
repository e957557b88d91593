package booking

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/julian-wei213/327Qbnb/model"
	bookingsvc "github.com/julian-wei213/327Qbnb/service/booking"
)

type Controller struct {
	Svc bookingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/bookings
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid start_date"})
	}
	end, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid end_date"})
	}
	uid, _ := c.Get("user_id").(int64)

	b, err := h.Svc.Create(c.Request().Context(), uid, req.ListingID, start, end)
	if err != nil {
		switch bookingsvc.Code(err) {
		case bookingsvc.ErrListingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "listing not found"})
		case bookingsvc.ErrUserNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		case bookingsvc.ErrDateConflict:
			return c.JSON(http.StatusConflict, echo.Map{"message": "dates already booked"})
		case bookingsvc.ErrOwnBooking:
			return c.JSON(http.StatusForbidden, echo.Map{"message": "cannot book your own listing"})
		case bookingsvc.ErrLowBalance, bookingsvc.ErrBadDates:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": string(bookingsvc.Code(err))})
		default:
			h.Log.Error("booking create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "listing booked", "booking": b})
}

// GET /v1/bookings/my
func (h *Controller) MyBookings(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyBookings(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("booking history", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
