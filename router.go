package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"

	"github.com/yourorg/house-api/facing"
	"github.com/yourorg/house-api/gmaps"
	httpapi "github.com/yourorg/house-api/http"
	httpv1 "github.com/yourorg/house-api/http/v1"
	"github.com/yourorg/house-api/internal/hydrator"
	"github.com/yourorg/house-api/listing"
	"github.com/yourorg/house-api/nces"
	"github.com/yourorg/house-api/rentcast"
)

type RouterDeps struct {
	Extractor *listing.Extractor
	Estimator *facing.Estimator
	Maps      *gmaps.Client
	RentCast  *rentcast.Client
	Schools   *nces.Client
	Hydrator  *hydrator.Hydrator
	V1        *httpv1.ExtractDeps // nil when Redis is not configured
}

func BuildRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(httprate.LimitByIP(100, 1*time.Minute)) // protect upstream quota
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) { w.Write([]byte(`{"ok":true}`)) })

	httpapi.RegisterExtract(r, httpapi.ExtractDeps{Extractor: deps.Extractor, Hydrator: deps.Hydrator})
	httpapi.RegisterFacing(r, httpapi.FacingDeps{Estimator: deps.Estimator})
	httpapi.RegisterGoogle(r, httpapi.GoogleDeps{Maps: deps.Maps})
	httpapi.RegisterProperty(r, httpapi.PropertyDeps{RentCast: deps.RentCast})
	httpapi.RegisterSchools(r, httpapi.SchoolsDeps{Geo: deps.Maps, Schools: deps.Schools})

	// v1 cached extraction with Redis + SWR
	if deps.V1 != nil {
		httpv1.RegisterExtract(r, *deps.V1)
	}

	return r
}
