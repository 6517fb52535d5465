package gmaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/house-api/internal/upstream"
)

type Client struct {
	key     string
	BaseURL string
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 3
	rc.HTTPClient.Timeout = 6 * time.Second
	rc.Logger = nil

	return &Client{
		key:     apiKey,
		BaseURL: "https://maps.googleapis.com/maps/api",
		http:    rc,
	}
}

// Geocode resolves an address to a coordinate. ok is false when the service
// answers cleanly but has no match; err covers transport and non-success
// statuses.
func (c *Client) Geocode(ctx context.Context, address string) (lat, lng float64, ok bool, err error) {
	u := fmt.Sprintf("%s/geocode/json?address=%s&key=%s", c.BaseURL, url.QueryEscape(address), c.key)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, false, err
	}
	req.Header.Set("User-Agent", "house-dashboard")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, 0, false, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return 0, 0, false, &upstream.StatusError{Service: "google geocode", StatusCode: resp.StatusCode}
	}

	var body struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return 0, 0, false, err
	}
	if len(body.Results) == 0 {
		return 0, 0, false, nil
	}
	loc := body.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, true, nil
}

// proxyAllow lists the Maps API paths the dashboard is allowed to reach
// through the proxy. Find Place is included so fuzzy names work.
var proxyAllow = []string{"distancematrix", "geocode", "place/nearbysearch", "place/findplacefromtext"}

func AllowedProxyPath(path string) bool {
	for _, p := range proxyAllow {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Proxy forwards an allowlisted Maps API call with the server-side key
// appended, returning the raw payload and upstream status.
func (c *Client) Proxy(ctx context.Context, path, qs string) ([]byte, int, error) {
	u := fmt.Sprintf("%s/%s/json?%s&key=%s", c.BaseURL, path, qs, c.key)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "house-dashboard")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return b, resp.StatusCode, nil
}

var reKey = regexp.MustCompile(`(?i)key=[^&]+`)

// Redact masks the API key in a URL destined for logs.
func Redact(u string) string {
	return reKey.ReplaceAllString(u, "key=REDACTED")
}
