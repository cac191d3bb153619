// Package handlers contains the HTTP handlers for the v1 API surface.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"driftboard/internal/core"
	"driftboard/internal/feeds"
	"driftboard/internal/types"
)

// FeedFetcher is the surface the feed handlers need from the fetch
// engine.
type FeedFetcher interface {
	Fetch(ctx context.Context, query string) feeds.Result
}

// FeedHandler serves the cached external-data endpoints.
type FeedHandler struct {
	News    FeedFetcher
	Weather FeedFetcher
	Photos  FeedFetcher
}

// Routes mounts the feed endpoints.
func (h *FeedHandler) Routes(r chi.Router) {
	r.Get("/feeds/news", h.HandleNews)
	r.Get("/feeds/weather", h.HandleWeather)
	r.Get("/feeds/photos", h.HandlePhotos)
}

// HandleNews serves GET /v1/feeds/news?q=.
func (h *FeedHandler) HandleNews(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.News.Fetch(r.Context(), r.URL.Query().Get("q")))
}

// HandleWeather serves GET /v1/feeds/weather?location=.
func (h *FeedHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.Weather.Fetch(r.Context(), r.URL.Query().Get("location")))
}

// HandlePhotos serves GET /v1/feeds/photos?q=.
func (h *FeedHandler) HandlePhotos(w http.ResponseWriter, r *http.Request) {
	writeResult(w, r, h.Photos.Fetch(r.Context(), r.URL.Query().Get("q")))
}

// writeResult maps a fetch result onto the wire. Every outcome is
// serialized as the result envelope itself, so clients always parse the
// same {success, data?, error?} shape. A failed result that still
// carries data (the photos fallback-on-error path) is served as 200
// with Success=false, so clients can render the substitute payload
// while surfacing the degraded state; failures without data keep the
// envelope but take their status from the typed error.
func writeResult(w http.ResponseWriter, r *http.Request, res feeds.Result) {
	if res.Success || res.Data != nil {
		core.JSON(w, r, http.StatusOK, res)
		return
	}
	status := http.StatusInternalServerError
	var appErr *types.AppError
	if errors.As(res.Err, &appErr) {
		status = appErr.HTTPStatus()
	}
	core.JSON(w, r, status, res)
}
