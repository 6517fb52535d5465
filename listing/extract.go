// Package listing extracts property facts from real-estate listing pages.
// The page format is unversioned and frequently blocked, so extraction is a
// cascade of best-effort strategies: structured linked data, then the
// embedded client-state blob, then plain-text pattern scanning. Partial or
// empty results are the expected steady state, not an error.
package listing

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidURL is returned when the listing URL cannot be parsed at all.
var ErrInvalidURL = errors.New("invalid listing url")

type Extractor struct {
	fetcher *Fetcher
}

func NewExtractor() *Extractor {
	return &Extractor{fetcher: NewFetcher()}
}

// NewExtractorWithFetcher exists for tests and callers that tune the
// fetcher (mirror base, rate limits).
func NewExtractorWithFetcher(f *Fetcher) *Extractor {
	return &Extractor{fetcher: f}
}

// Extract fetches the listing page and runs the strategy cascade. Each
// strategy only runs for fields still unset; parse failures inside a
// strategy skip that strategy for that field and never surface to the
// caller. The only terminal failure is *FetchError — network failure on
// both the page and the mirror — and even then the URL-seeded partial
// result is returned alongside it.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Result, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, ErrInvalidURL
	}

	acc := newAccumulator()
	debug := map[string]any{"target": rawURL}

	// Seed the address from the URL path so the rest of the pipeline stays
	// useful even under total fetch failure at the HTTP level.
	acc.seedAddress(addressFromURL(u))

	body, fetchDebug, err := e.fetcher.Fetch(ctx, u)
	for k, v := range fetchDebug {
		debug[k] = v
	}
	if err != nil {
		// Network failure on both paths. The URL-derived seed is still a
		// usable partial record, so hand it back alongside the error.
		acc.res.Debug = debug
		return acc.res, err
	}

	// Structured strategies need real markup; the mirror serves plain text.
	if strings.Contains(body, "<script") {
		jsonLDStrategy(body, acc)
		stateBlobStrategy(body, acc)
	}
	textStrategy(stripHTML(body), acc)

	out := acc.res
	debug["extracted"] = map[string]any{
		"address":        out.Address != nil,
		"livingAreaSqft": out.LivingAreaSqft != nil,
		"lotSizeSqft":    out.LotSizeSqft != nil,
		"facing":         out.Facing != nil,
		"schools":        len(out.Schools),
	}
	out.Debug = debug
	return out, nil
}
