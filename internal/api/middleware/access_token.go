package middleware

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"mailroom/internal/apperrors"
	"mailroom/internal/models"
)

const userContextKey = "user"

// TokenLookup finds the user owning an access token. Unknown tokens return
// (nil, nil).
type TokenLookup interface {
	GetByAccessToken(ctx context.Context, token string) (*models.User, error)
}

type AccessTokenMiddleware struct {
	users TokenLookup
	now   func() time.Time
}

func NewAccessTokenMiddleware(users TokenLookup) *AccessTokenMiddleware {
	return &AccessTokenMiddleware{users: users, now: time.Now}
}

// Middleware requires a valid ?access_token= on every request.
func (m *AccessTokenMiddleware) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := c.QueryParam("access_token")
			if token == "" {
				return apperrors.Auth("Missing access_token")
			}

			user, err := m.users.GetByAccessToken(c.Request().Context(), token)
			if err != nil {
				return apperrors.Internal(err, "access token lookup")
			}
			if user == nil || !user.TokenValid(m.now()) {
				return apperrors.Auth("Invalid or expired access_token")
			}

			c.Set(userContextKey, user)
			return next(c)
		}
	}
}

// UserFromContext returns the user authenticated for this request, if any.
func UserFromContext(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
