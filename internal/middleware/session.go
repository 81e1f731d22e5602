package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/vrooom/car-rental-service/internal/model"
	"github.com/vrooom/car-rental-service/internal/repository"
)

// Session returns a middleware that validates a Bearer access token
// and resolves it against the active session record.  A token whose
// subject no longer matches the session (after logout, or after a
// different user signed in) is rejected, so logout invalidates every
// previously issued token.  Handlers read the authenticated user via
// c.Get("user") and the role via c.Get("role").
func Session(secret string, sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, ok := resolveUser(c, secret, sessions)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
			}
			c.Set("user", user)
			c.Set("user_email", user.Email)
			c.Set("role", user.Role)
			return next(c)
		}
	}
}

// OptionalSession resolves the user like Session but lets the request
// through either way.  Routes that behave differently for guests use
// it; handlers check c.Get("user") for presence.
func OptionalSession(secret string, sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if user, ok := resolveUser(c, secret, sessions); ok {
				c.Set("user", user)
				c.Set("user_email", user.Email)
				c.Set("role", user.Role)
			}
			return next(c)
		}
	}
}

// CurrentUser returns the user injected by Session or OptionalSession.
func CurrentUser(c echo.Context) (model.User, bool) {
	u, ok := c.Get("user").(model.User)
	return u, ok
}

func resolveUser(c echo.Context, secret string, sessions *repository.SessionRepo) (model.User, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return model.User{}, false
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, echo.ErrUnauthorized
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return model.User{}, false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return model.User{}, false
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return model.User{}, false
	}

	sess, ok := sessions.Current(c.Request().Context())
	if !ok || sess.User.Email == "" || !strings.EqualFold(sess.User.Email, sub) {
		return model.User{}, false
	}
	return sess.User, true
}
