package httputil

import (
	"errors"
	"net/http"
	"time"

	"github.com/learnhub/backend/internal/config"
)

// SessionCookieName matches the cookie the web client stores the session
// token under.
const SessionCookieName = "sessionID"

// SetSessionCookie sets the sessionID cookie. The cookie expiry always
// mirrors the stored session's expiry.
func SetSessionCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	isProduction := config.GetEnv("ENVIRONMENT", "development") == "production"

	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   isProduction, // Only require HTTPS in production
	}

	// SameSite=None requires Secure=true, so use Lax for development
	if isProduction {
		cookie.SameSite = http.SameSiteNoneMode
		cookie.Secure = true // Must be true for SameSite=None
	} else {
		cookie.SameSite = http.SameSiteLaxMode // Works for localhost without HTTPS
	}

	http.SetCookie(w, cookie)
}

// ClearSessionCookie deletes the sessionID cookie on the client.
func ClearSessionCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	}

	http.SetCookie(w, cookie)
}

// GetSessionTokenFromCookie extracts the session token from the
// sessionID cookie.
func GetSessionTokenFromCookie(r *http.Request) (string, error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", errors.New("session cookie not found")
	}

	if cookie.Value == "" {
		return "", errors.New("session cookie is empty")
	}

	return cookie.Value, nil
}

// HasSessionCookie reports whether the request carries a sessionID
// cookie at all, empty or not.
func HasSessionCookie(r *http.Request) bool {
	_, err := r.Cookie(SessionCookieName)
	return err == nil
}
