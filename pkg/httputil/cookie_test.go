package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetSessionCookieMirrorsExpiry(t *testing.T) {
	expiry := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)

	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "tok-abc", expiry)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, "tok-abc", cookie.Value)
	assert.True(t, cookie.Expires.Equal(expiry))
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
}

func TestClearSessionCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, SessionCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestGetSessionTokenFromCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "tok-abc"})

	token, err := GetSessionTokenFromCookie(req)
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
}

func TestGetSessionTokenFromCookieMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, err := GetSessionTokenFromCookie(req)
	assert.Error(t, err)
}

func TestGetSessionTokenFromCookieEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: ""})

	_, err := GetSessionTokenFromCookie(req)
	assert.Error(t, err)
	assert.True(t, HasSessionCookie(req), "an empty cookie is still a cookie")
}
