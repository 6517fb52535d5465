package listing

import (
	"regexp"
	"strings"

	"github.com/yourorg/house-api/internal/compass"
)

var (
	reScript = regexp.MustCompile(`(?i)<script[\s\S]*?</script>`)
	reStyle  = regexp.MustCompile(`(?i)<style[\s\S]*?</style>`)
	reTag    = regexp.MustCompile(`<[^>]+>`)
	reSpaces = regexp.MustCompile(`\s{2,}`)
)

// stripHTML reduces a page to scannable plain text. The mirror already
// returns plain text; running it through here is harmless.
func stripHTML(html string) string {
	s := reScript.ReplaceAllString(html, "")
	s = reStyle.ReplaceAllString(s, "")
	s = reTag.ReplaceAllString(s, " ")
	s = strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(s)
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

var (
	reLivingPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Living\s*Sq\.?\s*Ft\.?\s*[:\-]?\s*([\d,]{3,7})`),
		regexp.MustCompile(`(?i)Living\s*Area\s*[:\-]?\s*([\d,]{3,7})`),
		regexp.MustCompile(`(?i)Square\s*Feet\s*[:\-]?\s*([\d,]{3,7})`),
	}
	reLotPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Lot\s*Size\s*[:\-]?\s*([\d,]{2,7})\s*(?:sq\.?\s*ft|square\s*feet)`),
		regexp.MustCompile(`(?i)Lot\s*Size\s*\(sq\s*ft\)\s*[:\-]?\s*([\d,]{2,7})`),
	}
	reFacingText = regexp.MustCompile(`(?i)(?:Faces|Facing|Direction\s*Faces?)\s*[:\-]?\s*(North(?:east|west)?|South(?:east|west)?|East|West)`)

	// "8/10 Lincoln High School"
	reSchoolRated = regexp.MustCompile(`(?i)(\d{1,2})\s*/\s*10\s+([A-Za-z0-9 .,'\-]+?(?:Elementary|Middle|High)\s+School)`)
	// "Elementary School: Vinci Park Elementary GreatSchools Rating 6/10"
	reSchoolLabeled = regexp.MustCompile(`(?i)(Elementary|Middle|High)\s*School\s*[:\-]\s*([A-Za-z0-9 .,'\-]+?)(?:\s*GreatSchools\s*Rating\s*(\d{1,2})\s*/\s*10|$)`)
	reLevelInName   = regexp.MustCompile(`(?i)\b(Elementary|Middle|High)\s+School\b`)
)

// textStrategy is the last resort: regex scans over tag-stripped text. It
// works on both real HTML and the mirror's plain-text rendering.
func textStrategy(text string, acc *accumulator) {
	if acc.needLivingArea() {
		if v, ok := firstPatternNumber(text, reLivingPatterns); ok {
			acc.setLivingArea(v)
		}
	}
	if acc.needLotSize() {
		if v, ok := firstPatternNumber(text, reLotPatterns); ok {
			acc.setLotSize(v)
		}
	}
	if acc.needFacing() {
		if m := reFacingText.FindStringSubmatch(text); m != nil {
			acc.setFacing(compass.Normalize(m[1]))
		}
	}
	if acc.needSchools() {
		acc.setSchools(dedupeSchools(scanSchools(text)))
	}
}

func firstPatternNumber(text string, patterns []*regexp.Regexp) (float64, bool) {
	for _, re := range patterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if v, ok := parseNumber(m[1]); ok {
				return v, true
			}
		}
	}
	return 0, false
}

func scanSchools(text string) []School {
	var out []School
	for _, m := range reSchoolRated.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(m[2])
		s := School{Name: name}
		if lm := reLevelInName.FindStringSubmatch(name); lm != nil {
			s.Level = normalizeLevel(lm[1])
		}
		if r, ok := parseNumber(m[1]); ok {
			s.Rating = &r
		}
		out = append(out, s)
	}
	for _, m := range reSchoolLabeled.FindAllStringSubmatch(text, -1) {
		s := School{
			Name:  reSpaces.ReplaceAllString(strings.TrimSpace(m[2]), " "),
			Level: normalizeLevel(m[1]),
		}
		if m[3] != "" {
			if r, ok := parseNumber(m[3]); ok {
				s.Rating = &r
			}
		}
		out = append(out, s)
	}
	return out
}
