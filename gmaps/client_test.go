package gmaps

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/house-api/internal/upstream"
)

func TestGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		assert.Equal(t, "1893 Newbury Park Dr", r.URL.Query().Get("address"))
		w.Write([]byte(`{"results":[{"geometry":{"location":{"lat":37.3861,"lng":-121.8905}}}]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	lat, lng, ok, err := c.Geocode(context.Background(), "1893 Newbury Park Dr")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 37.3861, lat)
	assert.Equal(t, -121.8905, lng)
}

func TestGeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	_, _, ok, err := c.Geocode(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGeocodeUpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("test-key")
	c.BaseURL = srv.URL
	_, _, _, err := c.Geocode(context.Background(), "anything")
	var se *upstream.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
	assert.Equal(t, "google geocode", se.Service)
}

func TestAllowedProxyPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"distancematrix", true},
		{"geocode", true},
		{"place/nearbysearch", true},
		{"place/findplacefromtext", true},
		{"directions", false},
		{"place/details", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equalf(t, tt.want, AllowedProxyPath(tt.path), "path %q", tt.path)
	}
}

func TestRedact(t *testing.T) {
	u := "https://maps.googleapis.com/maps/api/geocode/json?address=x&key=secret123&foo=bar"
	got := Redact(u)
	assert.NotContains(t, got, "secret123")
	assert.Contains(t, got, "key=REDACTED")
}
