package listing

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var reZip5 = regexp.MustCompile(`^\d{5}$`)

// addressFromURL derives a mailing address from listing URL paths shaped
// like /{state}/{city}/{street-tokens[-zip]}/home/{id}. It seeds the result
// before any network call so the pipeline stays useful even when the page
// blocks us entirely. Returns "" when the path does not match.
func addressFromURL(u *url.URL) string {
	var parts []string
	for _, p := range strings.Split(u.Path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	idx := -1
	for i, p := range parts {
		if p == "home" {
			idx = i
			break
		}
	}
	if idx < 3 || len(parts) < 3 {
		return ""
	}
	state := parts[0]
	city := strings.ReplaceAll(parts[idx-2], "-", " ")
	streetZip := parts[idx-1]

	tokens := strings.Split(streetZip, "-")
	if len(tokens) < 2 {
		return ""
	}
	zip := ""
	if reZip5.MatchString(tokens[len(tokens)-1]) {
		zip = tokens[len(tokens)-1]
		tokens = tokens[:len(tokens)-1]
	}
	street := strings.TrimSpace(strings.Join(tokens, " "))
	if street == "" || city == "" || state == "" {
		return ""
	}
	if zip != "" {
		return fmt.Sprintf("%s, %s, %s %s", street, city, state, zip)
	}
	return fmt.Sprintf("%s, %s, %s", street, city, state)
}
