// Package facing estimates which compass direction a house faces by
// assuming it faces the nearest road: geocode the address, pull road
// geometry around it, find the closest sampled road point and take the
// bearing toward it.
package facing

import (
	"context"
	"errors"
	"math"

	"github.com/yourorg/house-api/internal/compass"
	"github.com/yourorg/house-api/overpass"
)

var (
	// ErrNoGeocode means the address resolved to nothing.
	ErrNoGeocode = errors.New("address did not geocode")
	// ErrNoRoads means no road geometry exists within the search radius;
	// there is no sampled point to bear toward, so no direction is guessed.
	ErrNoRoads = errors.New("no nearby road geometry")
)

// Result is the estimate for one address.
type Result struct {
	Facing  string         `json:"facing"`
	Method  string         `json:"method"`
	Lat     float64        `json:"lat"`
	Lng     float64        `json:"lng"`
	Nearest overpass.Point `json:"nearest"`
}

// Geocoder resolves an address to a coordinate. ok=false is a clean
// no-match, err a transport or upstream failure.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (lat, lng float64, ok bool, err error)
}

// RoadSource returns road ways with line geometry near a coordinate.
type RoadSource interface {
	NearbyWays(ctx context.Context, lat, lng float64) ([]overpass.Way, error)
}

type Estimator struct {
	Geo   Geocoder
	Roads RoadSource
}

func NewEstimator(geo Geocoder, roads RoadSource) *Estimator {
	return &Estimator{Geo: geo, Roads: roads}
}

// Estimate geocodes the address and buckets the bearing toward the closest
// sampled road point into one of the 8 compass labels. The result facing is
// never "Unknown": once a nearest point exists the bearing always resolves.
func (e *Estimator) Estimate(ctx context.Context, address string) (*Result, error) {
	lat, lng, ok, err := e.Geo.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoGeocode
	}

	ways, err := e.Roads.NearbyWays(ctx, lat, lng)
	if err != nil {
		return nil, err
	}

	nearest, found := nearestRoadPoint(lat, lng, ways)
	if !found {
		return nil, ErrNoRoads
	}

	brng := bearingDeg(lat, lng, nearest.Lat, nearest.Lon)
	return &Result{
		Facing:  compass.FromBearing(brng),
		Method:  "nearest-road-bearing",
		Lat:     lat,
		Lng:     lng,
		Nearest: nearest,
	}, nil
}

// nearestRoadPoint scans every consecutive vertex pair of every way,
// sampling each endpoint and the midpoint. Distance is Euclidean in raw
// degree space — an approximation that only holds because candidates are
// constrained to within the small Overpass search radius; do not reuse this
// at larger scales.
func nearestRoadPoint(lat, lng float64, ways []overpass.Way) (overpass.Point, bool) {
	best := overpass.Point{}
	bestDist := math.Inf(1)
	for _, way := range ways {
		g := way.Geometry
		if len(g) < 2 {
			continue
		}
		for i := 0; i < len(g)-1; i++ {
			a, b := g[i], g[i+1]
			mid := overpass.Point{Lat: (a.Lat + b.Lat) / 2, Lon: (a.Lon + b.Lon) / 2}
			for _, c := range []overpass.Point{a, b, mid} {
				d := math.Hypot(c.Lat-lat, c.Lon-lng)
				if d < bestDist {
					bestDist = d
					best = c
				}
			}
		}
	}
	return best, !math.IsInf(bestDist, 1)
}
