package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/julian-wei213/327Qbnb/model"
	usersvc "github.com/julian-wei213/327Qbnb/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// GET /v1/users/profile
func (h *Controller) Get(c echo.Context) error {
	uid, _ := c.Get("user_id").(int64)
	u, err := h.Svc.Profile(c.Request().Context(), uid)
	if err != nil {
		if usersvc.Code(err) == usersvc.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		}
		h.Log.Error("profile get", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"user": u})
}

// PUT /v1/users/profile
//
// Fields omitted from the payload are left unchanged; sending an explicit
// value (including "") updates that field.
func (h *Controller) Update(c echo.Context) error {
	var req model.UpdateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	uid, _ := c.Get("user_id").(int64)

	patch := usersvc.ProfilePatch{
		Name:       req.Name,
		Email:      req.Email,
		ShipAddr:   req.ShipAddr,
		PostalCode: req.PostalCode,
	}

	u, err := h.Svc.UpdateProfile(c.Request().Context(), uid, patch)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrInvalidName, usersvc.ErrInvalidEmail, usersvc.ErrInvalidPostal:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": string(usersvc.Code(err))})
		case usersvc.ErrEmailTaken:
			return c.JSON(http.StatusConflict, echo.Map{"message": "email already registered"})
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			h.Log.Error("profile update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "profile updated", "user": u})
}
