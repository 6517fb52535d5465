package rentcast

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	c := NewClient("test-key")
	c.BaseURL = baseURL
	return c
}

func TestLookupMapsFirstHit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		w.Write([]byte(`[{"id": "1893-Newbury-Park-Dr", "squareFootage": 1714, "lotSize": "5,663"}]`))
	}))
	defer srv.Close()

	facts, err := newTestClient(srv.URL).Lookup(context.Background(), "1893 Newbury Park Dr, San Jose, CA 95133")
	require.NoError(t, err)

	assert.Equal(t, "rentcast", facts.Source)
	require.NotNil(t, facts.LivingAreaSqft)
	assert.Equal(t, 1714.0, *facts.LivingAreaSqft)
	require.NotNil(t, facts.LotSizeSqft)
	assert.Equal(t, 5663.0, *facts.LotSizeSqft)
	require.NotNil(t, facts.RawID)
	assert.Equal(t, "1893-Newbury-Park-Dr", *facts.RawID)
	assert.Equal(t, 1, calls, "first query form already matched")
}

func TestLookupEnvelopeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bare array", body: `[{"id": "x", "buildingSizeSqFt": 990}]`},
		{name: "properties envelope", body: `{"properties": [{"id": "x", "buildingSizeSqFt": 990}]}`},
		{name: "single object", body: `{"id": "x", "buildingSizeSqFt": 990}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			facts, err := newTestClient(srv.URL).Lookup(context.Background(), "1 Main St, Austin, TX 78704")
			require.NoError(t, err)
			require.NotNil(t, facts.LivingAreaSqft)
			assert.Equal(t, 990.0, *facts.LivingAreaSqft)
		})
	}
}

func TestLookupNoMatchIsNotAnError(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	facts, err := newTestClient(srv.URL).Lookup(context.Background(), "1 Main St, Austin, TX 78704")
	require.NoError(t, err)
	assert.Nil(t, facts.LivingAreaSqft)
	assert.Nil(t, facts.LotSizeSqft)
	assert.Equal(t, 3, calls, "every query form was attempted")
	assert.NotNil(t, facts.Debug["attempts"])
}

func TestNumericShapes(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{in: 1714.0, want: 1714, wantOK: true},
		{in: "1,714", want: 1714, wantOK: true},
		{in: " 6098 ", want: 6098, wantOK: true},
		{in: "abc", wantOK: false},
		{in: nil, wantOK: false},
		{in: true, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := numeric(tt.in)
		assert.Equalf(t, tt.wantOK, ok, "input %v", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, got)
		}
	}
}
