package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/house-api/facing"
	"github.com/yourorg/house-api/gmaps"
	"github.com/yourorg/house-api/internal/upstream"
	"github.com/yourorg/house-api/listing"
	"github.com/yourorg/house-api/nces"
	"github.com/yourorg/house-api/overpass"
)

type stubGeo struct {
	lat, lng float64
	ok       bool
	err      error
}

func (s stubGeo) Geocode(_ context.Context, _ string) (float64, float64, bool, error) {
	return s.lat, s.lng, s.ok, s.err
}

type stubRoads struct {
	ways []overpass.Way
	err  error
}

func (s stubRoads) NearbyWays(_ context.Context, _, _ float64) ([]overpass.Way, error) {
	return s.ways, s.err
}

func newRouter(register func(chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	register(r)
	return r
}

func doJSON(t *testing.T, h http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestExtractHandlerMissingURL(t *testing.T) {
	r := newRouter(func(r chi.Router) {
		RegisterExtract(r, ExtractDeps{Extractor: listing.NewExtractor()})
	})
	code, body := doJSON(t, r, "/api/listing/extract")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "url_required", body["error"])
}

func TestExtractHandlerInvalidURL(t *testing.T) {
	r := newRouter(func(r chi.Router) {
		RegisterExtract(r, ExtractDeps{Extractor: listing.NewExtractor()})
	})
	code, body := doJSON(t, r, "/api/listing/extract?url=not-a-listing")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_url", body["error"])
}

func TestExtractHandlerFetchFailureReturnsPartial(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()

	f := listing.NewFetcher()
	f.MirrorBase = dead.URL
	r := newRouter(func(r chi.Router) {
		RegisterExtract(r, ExtractDeps{Extractor: listing.NewExtractorWithFetcher(f)})
	})

	code, body := doJSON(t, r, "/api/listing/extract?url="+dead.URL+"/CA/San-Jose/1893-Newbury-Park-Dr-95133/home/1")
	assert.Equal(t, http.StatusBadGateway, code)
	assert.Equal(t, "fetch_failed", body["error"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok, "partial result attached to the error body")
	assert.Equal(t, "1893 Newbury Park Dr, San Jose, CA 95133", data["address"])
}

func TestExtractHandlerSuccess(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Living Sq. Ft: 1,714</body></html>`))
	}))
	defer page.Close()

	r := newRouter(func(r chi.Router) {
		RegisterExtract(r, ExtractDeps{Extractor: listing.NewExtractor()})
	})
	code, body := doJSON(t, r, "/api/listing/extract?url="+page.URL+"/CA/San-Jose/1893-Newbury-Park-Dr-95133/home/1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1714.0, body["livingAreaSqft"])
	assert.Equal(t, "1893 Newbury Park Dr, San Jose, CA 95133", body["address"])
}

func TestFacingHandler(t *testing.T) {
	ways := []overpass.Way{{ID: 1, Geometry: []overpass.Point{
		{Lat: 37.3866, Lon: -121.8915},
		{Lat: 37.3866, Lon: -121.8895},
	}}}

	tests := []struct {
		name      string
		target    string
		geo       stubGeo
		roads     stubRoads
		wantCode  int
		wantError string
	}{
		{
			name:     "estimates facing",
			target:   "/api/facing?address=somewhere",
			geo:      stubGeo{lat: 37.3861, lng: -121.8905, ok: true},
			roads:    stubRoads{ways: ways},
			wantCode: http.StatusOK,
		},
		{
			name:      "missing address",
			target:    "/api/facing",
			wantCode:  http.StatusBadRequest,
			wantError: "address_required",
		},
		{
			name:      "geocode miss",
			target:    "/api/facing?address=nowhere",
			geo:       stubGeo{ok: false},
			wantCode:  http.StatusNotFound,
			wantError: "geocode_failed",
		},
		{
			name:      "no roads",
			target:    "/api/facing?address=rural",
			geo:       stubGeo{lat: 37, lng: -121, ok: true},
			roads:     stubRoads{},
			wantCode:  http.StatusNotFound,
			wantError: "no_nearby_road_geometry",
		},
		{
			name:      "overpass outage",
			target:    "/api/facing?address=somewhere",
			geo:       stubGeo{lat: 37, lng: -121, ok: true},
			roads:     stubRoads{err: &upstream.StatusError{Service: "overpass", StatusCode: 504}},
			wantCode:  http.StatusBadGateway,
			wantError: "upstream_error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(func(r chi.Router) {
				RegisterFacing(r, FacingDeps{Estimator: facing.NewEstimator(tt.geo, tt.roads)})
			})
			code, body := doJSON(t, r, tt.target)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, "N", body["facing"])
				assert.Equal(t, "nearest-road-bearing", body["method"])
			}
		})
	}
}

func TestGoogleHandlerBlockedPath(t *testing.T) {
	r := newRouter(func(r chi.Router) {
		RegisterGoogle(r, GoogleDeps{Maps: gmaps.NewClient("test-key")})
	})
	code, body := doJSON(t, r, "/api/google?path=directions&qs=origin=a")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "blocked_path", body["error"])
}

func TestGoogleHandlerRelays(t *testing.T) {
	upstreamSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "key=test-key")
		w.Write([]byte(`{"status":"OK","rows":[]}`))
	}))
	defer upstreamSrv.Close()

	maps := gmaps.NewClient("test-key")
	maps.BaseURL = upstreamSrv.URL
	r := newRouter(func(r chi.Router) {
		RegisterGoogle(r, GoogleDeps{Maps: maps})
	})
	code, body := doJSON(t, r, "/api/google?path=distancematrix&qs=origins%3Da%26destinations%3Db")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "OK", body["status"])
}

func TestSchoolsHandler(t *testing.T) {
	sabs := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[{"attributes":{"schnam":"VINCI PARK ELEMENTARY","level":"1","gslo":"KG","gshi":"05","ncessch":"063459005678"}}]}`))
	}))
	defer sabs.Close()

	schools := nces.NewClient()
	schools.BaseURL = sabs.URL

	r := newRouter(func(r chi.Router) {
		RegisterSchools(r, SchoolsDeps{Geo: stubGeo{lat: 37.38, lng: -121.89, ok: true}, Schools: schools})
	})
	code, body := doJSON(t, r, "/api/schools/assigned?address=1893+Newbury+Park+Dr")
	assert.Equal(t, http.StatusOK, code)
	assigned, ok := body["assigned"].([]any)
	require.True(t, ok)
	require.Len(t, assigned, 1)
	first := assigned[0].(map[string]any)
	assert.Equal(t, "Elementary", first["level"])
	assert.Equal(t, "VINCI PARK ELEMENTARY", first["name"])
}

func TestSchoolsHandlerGeocodeMiss(t *testing.T) {
	r := newRouter(func(r chi.Router) {
		RegisterSchools(r, SchoolsDeps{Geo: stubGeo{ok: false}, Schools: nces.NewClient()})
	})
	code, body := doJSON(t, r, "/api/schools/assigned?address=nowhere")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "geocode_failed", body["error"])
}

func TestPropertyHandlerWithoutClient(t *testing.T) {
	r := newRouter(func(r chi.Router) {
		RegisterProperty(r, PropertyDeps{})
	})
	code, body := doJSON(t, r, "/api/property?address=1893+Newbury+Park+Dr")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "rentcast", body["source"])
}
