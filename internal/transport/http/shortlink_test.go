package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenFor derives tokens the same way the shortener service does.
func testTokenFor(target string) string {
	sum := sha256.Sum256([]byte(target))
	return hex.EncodeToString(sum[:])[:15]
}

func TestRedirectToOriginalTarget(t *testing.T) {
	links := newFakeLinks()
	token, err := links.Shorten(context.Background(), "/media/intro.mp4")
	require.NoError(t, err)

	handler := NewShortLinkHandler(links)
	req := httptest.NewRequest(http.MethodGet, "/short/"+token+"/", nil)
	req.SetPathValue("token", token)
	rec := httptest.NewRecorder()
	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/media/intro.mp4", rec.Header().Get("Location"))
}

func TestRedirectUnknownToken(t *testing.T) {
	handler := NewShortLinkHandler(newFakeLinks())
	req := httptest.NewRequest(http.MethodGet, "/short/abcdefabcdefabc/", nil)
	req.SetPathValue("token", "abcdefabcdefabc")
	rec := httptest.NewRecorder()
	handler.Redirect(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"body": "Could not find the requested short URL."}`, rec.Body.String())
}
