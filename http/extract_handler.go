package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/house-api/internal/hydrator"
	"github.com/yourorg/house-api/listing"
)

type ExtractDeps struct {
	Extractor *listing.Extractor
	Hydrator  *hydrator.Hydrator
}

// RegisterExtract wires GET /api/listing/extract. The handler always
// prefers a partial 200 over a failure: only a missing/invalid url or
// network failure on both fetch paths produces an error status.
func RegisterExtract(r chi.Router, d ExtractDeps) {
	r.Get("/api/listing/extract", func(w http.ResponseWriter, req *http.Request) {
		target := req.URL.Query().Get("url")
		if target == "" {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "url_required"})
			return
		}

		res, err := d.Extractor.Extract(req.Context(), target)
		if err != nil {
			var fe *listing.FetchError
			switch {
			case errors.As(err, &fe):
				// both fetch paths failed at the network level; return the
				// URL-seeded partial record alongside the error
				render.Status(req, http.StatusBadGateway)
				render.JSON(w, req, map[string]any{"error": "fetch_failed", "detail": fe.Err.Error(), "data": res})
			case errors.Is(err, listing.ErrInvalidURL):
				render.Status(req, http.StatusBadRequest)
				render.JSON(w, req, map[string]any{"error": "invalid_url", "detail": target})
			default:
				render.Status(req, http.StatusInternalServerError)
				render.JSON(w, req, map[string]any{"error": "extract_error", "detail": err.Error()})
			}
			return
		}

		persistExtraction(req.Context(), d.Hydrator, target, res)
		render.JSON(w, req, res)
	})
}
