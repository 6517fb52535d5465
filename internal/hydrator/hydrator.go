// Package hydrator is the write-behind path from an extraction result into
// the store: canonicalize the extracted address into a property key, upsert
// the property with its schools and the raw payload, publish the event.
// Results without a canonicalizable address are skipped, not failed —
// persistence is opportunistic.
package hydrator

import (
    "context"
    "database/sql"
    "encoding/json"

    "github.com/yourorg/house-api/internal/canon"
    "github.com/yourorg/house-api/internal/events"
    "github.com/yourorg/house-api/internal/store"
    "github.com/yourorg/house-api/listing"
)

type Hydrator struct {
    Store *store.Store
    Pub   events.Publisher
}

func (h *Hydrator) Enabled() bool { return h != nil && h.Store != nil }

func (h *Hydrator) Write(ctx context.Context, provider string, sourceURL string, res *listing.Result) error {
    if !h.Enabled() || res == nil || res.Address == nil { return nil }
    line1, city, st, zip, pkey := canon.CanonicalizeLine(*res.Address)
    if pkey == "" { return nil }

    payload, err := json.Marshal(res)
    if err != nil { return err }

    in := store.UpsertInput{
        PropertyKey: pkey,
        Address1:    line1,
        City:        city,
        State:       st,
        Zip:         zip,
        AddressFull: sqlNullString(*res.Address),
        LivingSqft:  sqlNullFloatPtr(res.LivingAreaSqft),
        LotSqft:     sqlNullFloatPtr(res.LotSizeSqft),
        Facing:      sqlNullStringPtr(res.Facing),
        Schools:     toSchoolInputs(res.Schools),
        Provider:    provider,
        SourceURL:   sourceURL,
        PayloadJSON: payload,
    }
    out, err := h.Store.WriteSnapshotAndUpsert(ctx, in)
    if err != nil { return err }
    if h.Pub != nil {
        h.Pub.PublishListingExtracted(ctx, events.ListingExtracted{
            PropertyID:  out.PropertyID,
            PropertyKey: pkey,
            SourceURL:   sourceURL,
        })
    }
    return nil
}

func toSchoolInputs(schools []listing.School) []store.SchoolInput {
    out := make([]store.SchoolInput, 0, len(schools))
    for _, s := range schools {
        in := store.SchoolInput{Name: s.Name, Level: sqlNullString(s.Level)}
        if s.Rating != nil {
            in.Rating = sql.NullFloat64{Float64: *s.Rating, Valid: true}
        }
        out = append(out, in)
    }
    return out
}

func sqlNullString(s string) sql.NullString {
    if s == "" { return sql.NullString{} }
    return sql.NullString{String: s, Valid: true}
}

func sqlNullStringPtr(s *string) sql.NullString {
    if s == nil { return sql.NullString{} }
    return sqlNullString(*s)
}

func sqlNullFloatPtr(v *float64) sql.NullFloat64 {
    if v == nil { return sql.NullFloat64{} }
    return sql.NullFloat64{Float64: *v, Valid: true}
}
