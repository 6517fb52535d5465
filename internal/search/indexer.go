package search

import (
    "context"

    "github.com/rs/zerolog/log"

    "github.com/yourorg/house-api/internal/events"
)

// Indexer consumes listing.extracted events and logs them. It is the swap
// point for a real search index if the dashboard ever needs cross-property
// lookup.
type Indexer struct {
    Pub events.Publisher
}

func (i *Indexer) Run(ctx context.Context) {
    sub := i.Pub.SubscribeListingExtracted()
    for {
        select {
        case <-ctx.Done():
            return
        case evt := <-sub:
            log.Info().
                Str("property_id", evt.PropertyID).
                Str("property_key", evt.PropertyKey).
                Str("source_url", evt.SourceURL).
                Msg("indexer: listing.extracted")
        }
    }
}
