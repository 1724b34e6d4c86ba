package http

import (
	"context"
	"log"
	"net/http"

	"github.com/learnhub/backend/internal/domain"
	"github.com/learnhub/backend/internal/metrics"
)

// Lengthener resolves short tokens back to the original media path.
type Lengthener interface {
	Lengthen(ctx context.Context, token string) (string, error)
}

type ShortLinkHandler struct {
	Links Lengthener
}

func NewShortLinkHandler(links Lengthener) *ShortLinkHandler {
	return &ShortLinkHandler{Links: links}
}

// Redirect resolves the {token} path value and issues a redirect to the
// original media path.
func (h *ShortLinkHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")

	target, err := h.Links.Lengthen(r.Context(), token)
	if err == domain.ErrNotFound {
		metrics.RedirectsTotal.WithLabelValues("not_found").Inc()
		writeBody(w, http.StatusNotFound, "Could not find the requested short URL.")
		return
	}
	if err != nil {
		log.Printf("[SHORTENER] Failed to resolve token %s: %v", token, err)
		writeBody(w, http.StatusInternalServerError, "Could not resolve the short URL.")
		return
	}

	metrics.RedirectsTotal.WithLabelValues("ok").Inc()
	http.Redirect(w, r, target, http.StatusFound)
}
