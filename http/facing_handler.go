package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/house-api/facing"
)

type FacingDeps struct {
	Estimator *facing.Estimator
}

// RegisterFacing wires GET /api/facing: address in, nearest-road-bearing
// facing estimate out.
func RegisterFacing(r chi.Router, d FacingDeps) {
	r.Get("/api/facing", func(w http.ResponseWriter, req *http.Request) {
		address := req.URL.Query().Get("address")
		if address == "" {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "address_required"})
			return
		}

		res, err := d.Estimator.Estimate(req.Context(), address)
		if err != nil {
			switch {
			case errors.Is(err, facing.ErrNoGeocode):
				render.Status(req, http.StatusNotFound)
				render.JSON(w, req, map[string]any{"error": "geocode_failed"})
			case errors.Is(err, facing.ErrNoRoads):
				render.Status(req, http.StatusNotFound)
				render.JSON(w, req, map[string]any{"error": "no_nearby_road_geometry"})
			default:
				writeUpstreamError(w, req, err)
			}
			return
		}
		render.JSON(w, req, res)
	})
}
