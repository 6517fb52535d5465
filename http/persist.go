package httpapi

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/yourorg/house-api/internal/hydrator"
	"github.com/yourorg/house-api/listing"
)

// persistExtraction is best-effort write-behind: a store failure never
// fails the request that produced the extraction.
func persistExtraction(ctx context.Context, hydr *hydrator.Hydrator, sourceURL string, res *listing.Result) {
	if !hydr.Enabled() || res == nil {
		return
	}
	if err := hydr.Write(ctx, "listing-extractor", sourceURL, res); err != nil {
		log.Warn().Err(err).Str("url", sourceURL).Msg("persist extraction failed")
	}
}
