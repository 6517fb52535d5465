package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/rs/zerolog/log"

	"github.com/yourorg/house-api/gmaps"
)

type GoogleDeps struct {
	Maps *gmaps.Client
}

// RegisterGoogle wires GET /api/google, the allowlisted Maps proxy the
// dashboard uses for distance-matrix, geocode and places calls. The key
// never reaches the browser.
func RegisterGoogle(r chi.Router, d GoogleDeps) {
	r.Get("/api/google", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		path := q.Get("path")
		qs := q.Get("qs")

		if !gmaps.AllowedProxyPath(path) {
			log.Warn().Str("path", path).Msg("google proxy: blocked path")
			render.Status(req, http.StatusBadRequest)
			render.JSON(w, req, map[string]any{"error": "blocked_path", "path": path})
			return
		}

		body, status, err := d.Maps.Proxy(req.Context(), path, qs)
		if err != nil {
			render.Status(req, http.StatusBadGateway)
			render.JSON(w, req, map[string]any{"error": "proxy_error", "detail": err.Error()})
			return
		}
		// relay the upstream status so the dashboard can tell quota
		// errors from bad requests
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(status)
		_, _ = w.Write(body)
	})
}
