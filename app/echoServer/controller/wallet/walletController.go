package wallet

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	usersvc "github.com/julian-wei213/327Qbnb/service/user"
)

type Controller struct {
	Svc usersvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

type DepositReq struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// POST /v1/wallet/deposits
func (h *Controller) Deposit(c echo.Context) error {
	var req DepositReq
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

	balance, err := h.Svc.Deposit(c.Request().Context(), uid, req.Amount)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrBadAmount:
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid amount"})
		case usersvc.ErrNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"message": "user not found"})
		default:
			h.Log.Error("wallet deposit", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "deposited", "balance": balance})
}
