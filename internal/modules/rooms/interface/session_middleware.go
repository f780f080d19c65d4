package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"askRoomWeb/internal/modules/rooms/application/usecase"
	"askRoomWeb/internal/shared/auth"
)

const sessionContextKey = "askroom.session"

// SessionCookie describes the cookie carrying the signed session token.
type SessionCookie struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

// SessionMiddleware resolves the browser's session from its signed cookie, opening
// a new one (and issuing a fresh cookie) when the token is missing or invalid.
func SessionMiddleware(store *usecase.SessionStore, signer *auth.SessionSigner, cookie SessionCookie) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sessionID := ""
			refresh := false
			if token := auth.ExtractSessionToken(req, cookie.Name); token != "" {
				claims, err := signer.Validate(token)
				if err != nil {
					slog.Debug("session token rejected", slog.String("path", req.URL.Path), slog.Any("error", err))
				} else {
					sessionID = claims.SessionID
					refresh = expiresSoon(claims, cookie.MaxAge)
				}
			}

			session, created := store.Open(req.Context(), sessionID)
			if sessionID == "" || created || refresh {
				token, err := signer.Issue(session.ID())
				if err != nil {
					slog.Error("session token issue failed", slog.String("sessionId", session.ID()), slog.Any("error", err))
					return echo.NewHTTPError(http.StatusInternalServerError, "unable to start session")
				}
				c.SetCookie(&http.Cookie{
					Name:     cookie.Name,
					Value:    token,
					Path:     "/",
					MaxAge:   int(cookie.MaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cookie.Secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(sessionContextKey, session)
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by SessionMiddleware.
func SessionFrom(c echo.Context) (*usecase.Session, bool) {
	session, ok := c.Get(sessionContextKey).(*usecase.Session)
	return session, ok && session != nil
}

// expiresSoon reports whether the token is past half of its lifetime.
func expiresSoon(claims *auth.Claims, lifetime time.Duration) bool {
	if claims.ExpiresAt == nil || lifetime <= 0 {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < lifetime/2
}
