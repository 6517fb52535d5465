package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/house-api/rentcast"
)

type PropertyDeps struct {
	// RentCast is nil when no API key is configured; the endpoint still
	// answers with nulls so the dashboard degrades instead of breaking.
	RentCast *rentcast.Client
}

// RegisterProperty wires GET /api/property: living and lot square footage
// from property records, best effort.
func RegisterProperty(r chi.Router, d PropertyDeps) {
	r.Get("/api/property", func(w http.ResponseWriter, req *http.Request) {
		address := req.URL.Query().Get("address")
		if address == "" {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "address_required"})
			return
		}

		if d.RentCast == nil {
			render.JSON(w, req, rentcast.Facts{
				Source: "rentcast",
				Debug:  map[string]any{"note": "RENTCAST_API_KEY not configured"},
			})
			return
		}

		facts, err := d.RentCast.Lookup(req.Context(), address)
		if err != nil {
			render.Status(req, http.StatusBadGateway)
			render.JSON(w, req, map[string]any{"error": "upstream_error", "detail": err.Error()})
			return
		}
		render.JSON(w, req, facts)
	})
}
