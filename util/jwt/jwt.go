package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issue signs an HS256 session token for a logged-in user. The email claim
// is carried so the web layer can key its session on it.
func Issue(secret string, userID int64, email string, ttlHours int) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   time.Now().Add(time.Duration(ttlHours) * time.Hour).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}
