// app/echoServer/controller/auth/authController.go
package auth

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

// Register a new user
// @Summary      Register user
// @Description  Register a new user with email uniqueness, password complexity and username rules
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.RegisterReq  true  "Register payload"
// @Success      201  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      409  {object}  map[string]any "email already registered"
// @Failure      500  {object}  map[string]any "internal server error"
// @Router       /v1/users/register [post]
func (ct *Controller) Register(c echo.Context) error {
	var req model.RegisterReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, err := ct.Svc.Register(c.Request().Context(), req)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrEmailTaken:
			return echo.NewHTTPError(http.StatusConflict, "email already registered")
		case usersvc.ErrBadInput, usersvc.ErrInvalidEmail, usersvc.ErrWeakPassword, usersvc.ErrInvalidName:
			return echo.NewHTTPError(http.StatusBadRequest, string(usersvc.Code(err)))
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("register failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "register failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "registered",
		"user":    u,
	})
}

// Login
// @Summary      Login
// @Description  Login with email + password, returns JWT
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        payload  body  model.LoginReq  true  "Login payload"
// @Success      200  {object}  map[string]any
// @Failure      400  {object}  map[string]any
// @Failure      401  {object}  map[string]any
// @Failure      500  {object}  map[string]any
// @Router       /v1/users/login [post]
func (ct *Controller) Login(c echo.Context) error {
	var req model.LoginReq
	if err := c.Bind(&req); err != nil {
		ct.Log.Warn("bind failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := ct.V.Struct(req); err != nil {
		ct.Log.Warn("validation failed", "path", c.Path(), "err", err)
		return echo.NewHTTPError(http.StatusBadRequest, "validation error")
	}

	u, token, err := ct.Svc.Login(c.Request().Context(), req)
	if err != nil {
		switch usersvc.Code(err) {
		case usersvc.ErrInvalidCreds:
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
		case usersvc.ErrBadInput, usersvc.ErrInvalidEmail, usersvc.ErrWeakPassword:
			return echo.NewHTTPError(http.StatusBadRequest, string(usersvc.Code(err)))
		default:
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			ct.Log.Error("login failed", "err", err, "req_id", rid, "path", c.Path())
			return echo.NewHTTPError(http.StatusInternalServerError, "login failed")
		}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "login success",
		"token":   token,
		"user":    u,
	})
}
