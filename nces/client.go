// Package nces resolves school assignment by intersecting the NCES SABS
// 2015-16 attendance-boundary polygons at a coordinate.
package nces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/yourorg/house-api/internal/upstream"
)

const defaultBaseURL = "https://nces.ed.gov/opengis/rest/services/K12_School_Locations/SABS_1516/MapServer/0/query"

const sourceLabel = "NCES SABS 2015–2016"

// Assigned is one school whose attendance boundary contains the point.
type Assigned struct {
	Level  string `json:"level"`
	Name   string `json:"name"`
	Grades string `json:"grades,omitempty"`
	NCESID string `json:"ncesId,omitempty"`
	Source string `json:"source"`
}

type Client struct {
	BaseURL string
	http    *retryablehttp.Client
}

func NewClient() *Client {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{BaseURL: defaultBaseURL, http: rc}
}

// AssignedSchools queries the boundary layer at (lat, lng) and reports the
// assigned school per level (1=Elementary, 2=Middle, 3=High), skipping
// levels with no intersecting polygon.
func (c *Client) AssignedSchools(ctx context.Context, lat, lng float64) ([]Assigned, error) {
	params := url.Values{
		"f":              {"json"},
		"geometry":       {fmt.Sprintf("%f,%f", lng, lat)},
		"geometryType":   {"esriGeometryPoint"},
		"inSR":           {"4326"},
		"spatialRel":     {"esriSpatialRelIntersects"},
		"outFields":      {"schnam,SrcName,level,gslo,gshi,stAbbrev,leaid,ncessch"},
		"returnGeometry": {"false"},
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, &upstream.StatusError{Service: "nces sabs", StatusCode: resp.StatusCode}
	}

	var body struct {
		Features []struct {
			Attributes map[string]any `json:"attributes"`
		} `json:"features"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	var out []Assigned
	for _, lvl := range []string{"1", "2", "3"} {
		for _, f := range body.Features {
			if attrString(f.Attributes, "level") != lvl {
				continue
			}
			name := attrString(f.Attributes, "schnam")
			if name == "" {
				name = attrString(f.Attributes, "SrcName")
			}
			a := Assigned{
				Level:  levelName(lvl),
				Name:   name,
				NCESID: attrString(f.Attributes, "ncessch"),
				Source: sourceLabel,
			}
			lo, hi := attrString(f.Attributes, "gslo"), attrString(f.Attributes, "gshi")
			switch {
			case lo != "" && hi != "":
				a.Grades = lo + "–" + hi
			case lo != "":
				a.Grades = lo
			case hi != "":
				a.Grades = hi
			}
			out = append(out, a)
			break
		}
	}
	return out, nil
}

// attrString tolerates the service returning numbers where strings are
// documented.
func attrString(attrs map[string]any, key string) string {
	switch v := attrs[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	}
	return ""
}

func levelName(code string) string {
	switch code {
	case "1":
		return "Elementary"
	case "2":
		return "Middle"
	case "3":
		return "High"
	}
	return "Other"
}
