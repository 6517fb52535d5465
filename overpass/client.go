// Package overpass queries OpenStreetMap road geometry through the Overpass
// API.
package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/house-api/internal/upstream"
)

// Point is one vertex of a way's line geometry.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Way is a tagged roadway with full line geometry.
type Way struct {
	ID       int64   `json:"id"`
	Geometry []Point `json:"geometry"`
}

type Client struct {
	BaseURL string
	RadiusM int
	http    *retryablehttp.Client
}

func NewClient() *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 2
	// the query itself carries timeout:25, leave headroom for transport
	rc.HTTPClient.Timeout = 30 * time.Second
	rc.Logger = nil

	return &Client{
		BaseURL: "https://overpass-api.de/api/interpreter",
		RadiusM: 120,
		http:    rc,
	}
}

// NearbyWays returns every highway-tagged way within RadiusM of the
// coordinate, with full geometry per way.
func (c *Client) NearbyWays(ctx context.Context, lat, lng float64) ([]Way, error) {
	query := fmt.Sprintf("[out:json][timeout:25];way(around:%d,%.7f,%.7f)[highway];out geom;", c.RadiusM, lat, lng)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, strings.NewReader(query))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &upstream.StatusError{Service: "overpass", StatusCode: resp.StatusCode}
	}

	var body struct {
		Elements []Way `json:"elements"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	return body.Elements, nil
}
