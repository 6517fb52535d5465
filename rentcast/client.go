// Package rentcast looks up property records (building and lot size) from
// the RentCast API. Responses vary by plan and endpoint version, so field
// mapping tolerates several spellings and everything is best effort.
package rentcast

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/house-api/internal/canon"
)

type Facts struct {
	Source         string         `json:"source"`
	LivingAreaSqft *float64       `json:"livingAreaSqft"`
	LotSizeSqft    *float64       `json:"lotSizeSqft"`
	RawID          *string        `json:"rawId,omitempty"`
	Debug          map[string]any `json:"debug,omitempty"`
}

type Client struct {
	key     string
	BaseURL string
	http    *retryablehttp.Client
}

func NewClient(apiKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 900 * time.Millisecond
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 8 * time.Second
	rc.Logger = nil

	return &Client{
		key:     apiKey,
		BaseURL: "https://api.rentcast.io/v1",
		http:    rc,
	}
}

// Lookup tries property queries most- to least-specific and maps the first
// hit. A clean no-match returns Facts with nulls, not an error; the
// attempts trail lands in Debug.
func (c *Client) Lookup(ctx context.Context, address string) (*Facts, error) {
	street, city, state, zip := canon.Split(address)

	queries := []url.Values{
		{"address": {street}, "city": {city}, "state": {state}, "postalCode": {zip}},
		{"address": {street}, "city": {city}, "state": {state}},
		{"address": {address}},
	}

	var attempts []map[string]any
	for _, q := range queries {
		target := fmt.Sprintf("%s/properties?%s", c.BaseURL, q.Encode())
		item, status, err := c.fetchFirst(ctx, target)
		attempt := map[string]any{"url": target, "status": status}
		if err != nil {
			attempt["error"] = err.Error()
		}
		attempts = append(attempts, attempt)
		if item != nil {
			return mapFacts(item, attempts), nil
		}
	}

	return &Facts{
		Source: "rentcast",
		Debug:  map[string]any{"attempts": attempts, "note": "no property found or key/plan not enabled"},
	}, nil
}

// fetchFirst returns the first property object in whichever envelope shape
// the API used: bare array, {properties: [...]}, or a single object.
func (c *Client) fetchFirst(ctx context.Context, target string) (map[string]any, int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("X-Api-Key", c.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "house-dashboard")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var data any
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, resp.StatusCode, nil
	}
	switch v := data.(type) {
	case []any:
		if len(v) > 0 {
			if obj, ok := v[0].(map[string]any); ok {
				return obj, resp.StatusCode, nil
			}
		}
	case map[string]any:
		if arr, ok := v["properties"].([]any); ok && len(arr) > 0 {
			if obj, ok := arr[0].(map[string]any); ok {
				return obj, resp.StatusCode, nil
			}
		}
		if _, ok := v["id"]; ok {
			return v, resp.StatusCode, nil
		}
	}
	return nil, resp.StatusCode, nil
}

func mapFacts(item map[string]any, attempts []map[string]any) *Facts {
	out := &Facts{Source: "rentcast", Debug: map[string]any{"attempts": attempts}}

	out.LivingAreaSqft = pickNumber(item,
		[]string{"buildingSizeSqFt"},
		[]string{"livingAreaSqFt"},
		[]string{"squareFootage"},
		[]string{"building", "sizeSqFt"},
		[]string{"details", "buildingSizeSqFt"},
	)
	out.LotSizeSqft = pickNumber(item,
		[]string{"lotSizeSqFt"},
		[]string{"lot", "sizeSqFt"},
		[]string{"lotSize"},
		[]string{"details", "lotSizeSqFt"},
	)
	if id, ok := item["id"].(string); ok && id != "" {
		out.RawID = &id
	}
	return out
}

// pickNumber walks each dotted path in order and returns the first value
// that parses as a finite number.
func pickNumber(obj map[string]any, paths ...[]string) *float64 {
	for _, path := range paths {
		var cur any = obj
		for _, k := range path {
			m, ok := cur.(map[string]any)
			if !ok {
				cur = nil
				break
			}
			cur = m[k]
		}
		if cur == nil {
			continue
		}
		if v, ok := numeric(cur); ok {
			return &v
		}
	}
	return nil
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(n, ",", "")), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, true
		}
	}
	return 0, false
}
