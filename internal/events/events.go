package events

import (
    "context"
)

// ListingExtracted is published after a successful extraction has been
// written through to the store.
type ListingExtracted struct {
    PropertyID  string
    PropertyKey string
    SourceURL   string
}

type Publisher interface {
    PublishListingExtracted(ctx context.Context, evt ListingExtracted)
    SubscribeListingExtracted() <-chan ListingExtracted
}

type inMemory struct { ch chan ListingExtracted }

func NewInMemory(buffer int) Publisher {
    if buffer <= 0 { buffer = 256 }
    return &inMemory{ ch: make(chan ListingExtracted, buffer) }
}

// PublishListingExtracted drops the event when the buffer is full; the
// store row already exists, consumers are advisory.
func (m *inMemory) PublishListingExtracted(_ context.Context, evt ListingExtracted) {
    select { case m.ch <- evt: default: }
}

func (m *inMemory) SubscribeListingExtracted() <-chan ListingExtracted { return m.ch }
