package listing

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/julian-wei213/327Qbnb/model"
	listingsvc "github.com/julian-wei213/327Qbnb/service/listing"
)

type Controller struct {
	Svc listingsvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /v1/listings
func (h *Controller) Create(c echo.Context) error {
	var req model.CreateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}
	uid, _ := c.Get("user_id").(int64)

	l, err := h.Svc.Create(c.Request().Context(), req.Title, req.Description, req.Price, time.Now(), uid)
	if err != nil {
		switch listingsvc.Code(err) {
		case listingsvc.ErrTitleTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "title already taken"})
		case listingsvc.ErrOwnerNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "owner not found"})
		case listingsvc.ErrBadTitle, listingsvc.ErrBadDescription, listingsvc.ErrBadPrice, listingsvc.ErrBadDate:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": string(listingsvc.Code(err))})
		default:
			h.Log.Error("listing create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "listing created", "listing": l})
}

// PUT /v1/listings/:id
func (h *Controller) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req model.UpdateListingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid, _ := c.Get("user_id").(int64)

	l, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		if listingsvc.Code(err) == listingsvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "listing not found"})
		}
		h.Log.Error("listing lookup", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	if l.OwnerID != uid {
		return c.JSON(http.StatusForbidden, echo.Map{"message": "forbidden"})
	}

	l, err = h.Svc.Update(c.Request().Context(), id, listingsvc.Patch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
	})
	if err != nil {
		switch listingsvc.Code(err) {
		case listingsvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "listing not found"})
		case listingsvc.ErrTitleTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "title already taken"})
		case listingsvc.ErrNoFields, listingsvc.ErrBadTitle, listingsvc.ErrBadDescription,
			listingsvc.ErrBadPrice, listingsvc.ErrBadDate, listingsvc.ErrPriceDecrease:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": string(listingsvc.Code(err))})
		default:
			h.Log.Error("listing update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "listing updated", "listing": l})
}

// GET /v1/listings
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("listing list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// GET /v1/listings/my
func (h *Controller) MyListings(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	rows, err := h.Svc.MyListings(c.Request().Context(), uid)
	if err != nil {
		h.Log.Error("my listings", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}
