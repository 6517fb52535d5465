package listing

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// residentialTypes are the JSON-LD @type values describing a dwelling.
var residentialTypes = map[string]bool{
	"SingleFamilyResidence": true,
	"Residence":             true,
	"House":                 true,
}

// jsonLDStrategy reads every embedded linked-data block and fills address,
// living area and lot size from residential objects. Malformed blocks are
// skipped; this is the most reliable strategy when present, so it runs
// first.
func jsonLDStrategy(html string, acc *accumulator) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var decoded any
		if err := json.Unmarshal([]byte(strings.TrimSpace(s.Text())), &decoded); err != nil {
			return
		}
		objs := []any{decoded}
		if arr, ok := decoded.([]any); ok {
			objs = arr
		}
		for _, o := range objs {
			obj, ok := o.(map[string]any)
			if !ok || !isResidential(obj["@type"]) {
				continue
			}
			if acc.needAddress() {
				acc.setAddress(jsonLDAddress(obj["address"]))
			}
			if acc.needLivingArea() {
				if v, ok := quantityValue(obj["floorSize"]); ok {
					acc.setLivingArea(v)
				}
			}
			if acc.needLotSize() {
				if v, ok := quantityValue(obj["lotSize"]); ok {
					acc.setLotSize(v)
				}
			}
		}
	})
}

func isResidential(t any) bool {
	switch v := t.(type) {
	case string:
		return residentialTypes[v]
	case []any:
		for _, x := range v {
			if s, ok := x.(string); ok && residentialTypes[s] {
				return true
			}
		}
	}
	return false
}

func jsonLDAddress(v any) string {
	obj, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	var parts []string
	for _, k := range []string{"streetAddress", "addressLocality", "addressRegion", "postalCode"} {
		if s, ok := obj[k].(string); ok && s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// quantityValue unwraps a schema.org QuantitativeValue {value: ...}.
func quantityValue(v any) (float64, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	return parseNumber(obj["value"])
}
