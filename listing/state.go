package listing

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/yourorg/house-api/internal/compass"
	"github.com/yourorg/house-api/internal/deepjson"
)

// The client framework serializes its whole store into the page under a
// fixed global. Everything the page renders is reachable in that blob
// without running any script.
var reStateBlob = regexp.MustCompile(`__REDUX_STATE__\s*=\s*(\{[\s\S]*?\});`)

var (
	reLivingKey = regexp.MustCompile(`(?i)living.?sq|living.?area|finished.?sq.?ft|sq.?ft|square.?feet`)
	reLotKey    = regexp.MustCompile(`(?i)lot.?size|lot.?area|lot.?sq.?ft`)
	reFacingKey = regexp.MustCompile(`(?i)facing|orientation`)
	reSchoolKey = regexp.MustCompile(`(?i)school`)
)

// stateBlobStrategy parses the embedded state object and walks it by key
// shape. The blob has no stable schema, so every lookup is a predicate over
// key names with several alternate spellings tolerated.
func stateBlobStrategy(html string, acc *accumulator) {
	m := reStateBlob.FindStringSubmatch(html)
	if m == nil {
		return
	}
	var root any
	if err := json.Unmarshal([]byte(m[1]), &root); err != nil {
		return
	}

	if acc.needAddress() {
		hits := deepjson.Find(root, func(k string, v any) bool {
			_, isObj := v.(map[string]any)
			return isObj && strings.Contains(strings.ToLower(k), "address")
		})
		for _, h := range hits {
			if addr := composeAddress(h.(map[string]any)); addr != "" {
				acc.setAddress(addr)
				break
			}
		}
	}

	if acc.needLivingArea() {
		if v, ok := firstNumeric(root, reLivingKey); ok {
			acc.setLivingArea(v)
		}
	}
	if acc.needLotSize() {
		if v, ok := firstNumeric(root, reLotKey); ok {
			acc.setLotSize(v)
		}
	}

	if acc.needFacing() {
		hits := deepjson.Find(root, func(k string, v any) bool {
			_, isStr := v.(string)
			return isStr && reFacingKey.MatchString(k)
		})
		if tok := deepjson.FirstString(hits); tok != "" {
			acc.setFacing(compass.Normalize(tok))
		}
	}

	if acc.needSchools() {
		hits := deepjson.Find(root, func(k string, v any) bool {
			_, isArr := v.([]any)
			return isArr && reSchoolKey.MatchString(k)
		})
		var schools []School
		for _, h := range hits {
			for _, entry := range h.([]any) {
				if s, ok := schoolFromNode(entry); ok {
					schools = append(schools, s)
				}
			}
		}
		acc.setSchools(dedupeSchools(schools))
	}
}

// firstNumeric returns the first value in walk order under a matching key
// that parses as a finite number.
func firstNumeric(root any, keyPat *regexp.Regexp) (float64, bool) {
	hits := deepjson.Find(root, func(k string, v any) bool {
		switch v.(type) {
		case float64, string:
			return keyPat.MatchString(k)
		}
		return false
	})
	for _, h := range hits {
		if v, ok := parseNumber(h); ok {
			return v, true
		}
	}
	return 0, false
}

func composeAddress(obj map[string]any) string {
	var parts []string
	for _, keys := range [][]string{
		{"streetLine", "streetAddress"},
		{"city", "addressLocality"},
		{"state", "addressRegion"},
		{"zip", "postalCode"},
	} {
		if s := firstStringField(obj, keys...); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func firstStringField(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := obj[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func schoolFromNode(v any) (School, bool) {
	obj, ok := v.(map[string]any)
	if !ok {
		return School{}, false
	}
	name := firstStringField(obj, "name", "schoolName")
	if name == "" {
		return School{}, false
	}
	s := School{
		Name:  name,
		Level: normalizeLevel(firstStringField(obj, "level", "gradeLevel", "type")),
	}
	for _, k := range []string{"rating", "greatSchoolsRating"} {
		if r, ok := parseNumber(obj[k]); ok {
			s.Rating = &r
			break
		}
	}
	return s, true
}
