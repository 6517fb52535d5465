package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/yourorg/house-api/facing"
	"github.com/yourorg/house-api/internal/upstream"
	"github.com/yourorg/house-api/nces"
)

type SchoolsDeps struct {
	Geo     facing.Geocoder
	Schools *nces.Client
}

// RegisterSchools wires GET /api/schools/assigned: geocode the address,
// intersect the attendance-boundary polygons at the point, report the
// assigned school per level.
func RegisterSchools(r chi.Router, d SchoolsDeps) {
	r.Get("/api/schools/assigned", func(w http.ResponseWriter, req *http.Request) {
		address := req.URL.Query().Get("address")
		if address == "" {
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "address_required"})
			return
		}

		lat, lng, ok, err := d.Geo.Geocode(req.Context(), address)
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		if !ok {
			render.Status(req, http.StatusNotFound)
			render.JSON(w, req, map[string]any{"error": "geocode_failed", "address": address})
			return
		}

		assigned, err := d.Schools.AssignedSchools(req.Context(), lat, lng)
		if err != nil {
			writeUpstreamError(w, req, err)
			return
		}
		if assigned == nil {
			assigned = []nces.Assigned{}
		}
		render.JSON(w, req, map[string]any{
			"address":  address,
			"lat":      lat,
			"lng":      lng,
			"assigned": assigned,
		})
	})
}

func writeUpstreamError(w http.ResponseWriter, req *http.Request, err error) {
	var se *upstream.StatusError
	if errors.As(err, &se) {
		render.Status(req, http.StatusBadGateway)
		render.JSON(w, req, map[string]any{"error": "upstream_error", "service": se.Service, "status": se.StatusCode})
		return
	}
	render.Status(req, http.StatusBadGateway)
	render.JSON(w, req, map[string]any{"error": "upstream_error", "detail": err.Error()})
}
