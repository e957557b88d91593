// app/echoServer/jwtx/user.go
package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

func claimsFromContext(c echo.Context) (jwt.MapClaims, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok || tok == nil {
		return nil, errors.New("no jwt token in context")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid jwt claims")
	}
	return claims, nil
}

func UserIDFromContext(c echo.Context) (int64, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return 0, err
	}
	if f, ok := claims["sub"].(float64); ok {
		return int64(f), nil
	}
	return 0, errors.New("sub missing in claims")
}

func EmailFromContext(c echo.Context) (string, error) {
	claims, err := claimsFromContext(c)
	if err != nil {
		return "", err
	}
	if s, ok := claims["email"].(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("email missing in claims")
}
