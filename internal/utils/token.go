package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ConfirmationClaims are carried by the link a subscriber follows to
// confirm a pending subscription.
type ConfirmationClaims struct {
	ListCID string `json:"list"`
	Email   string `json:"email"`
	jwt.RegisteredClaims
}

// SignConfirmationToken signs claims for the confirmation request cid.
func SignConfirmationToken(secret, cid, listCID, email string, expiresAt time.Time) (string, error) {
	claims := ConfirmationClaims{
		ListCID: listCID,
		Email:   email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        cid,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseConfirmationToken(token, secret string) (*ConfirmationClaims, error) {
	claims := &ConfirmationClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	return claims, nil
}
