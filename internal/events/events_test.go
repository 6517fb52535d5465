package events

import (
    "context"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestInMemoryPublishSubscribe(t *testing.T) {
    pub := NewInMemory(2)
    pub.PublishListingExtracted(context.Background(), ListingExtracted{PropertyKey: "k1"})
    pub.PublishListingExtracted(context.Background(), ListingExtracted{PropertyKey: "k2"})

    sub := pub.SubscribeListingExtracted()
    require.Len(t, sub, 2)
    assert.Equal(t, "k1", (<-sub).PropertyKey)
    assert.Equal(t, "k2", (<-sub).PropertyKey)
}

func TestInMemoryPublishNeverBlocks(t *testing.T) {
    pub := NewInMemory(1)
    for i := 0; i < 10; i++ {
        pub.PublishListingExtracted(context.Background(), ListingExtracted{PropertyKey: "overflow"})
    }
    // only the buffered event survives, the rest were dropped
    assert.Len(t, pub.SubscribeListingExtracted(), 1)
}
