// Package store is the optional write-behind Postgres tier: extracted
// listing facts keyed by canonical address, the raw extraction payloads for
// replay, and the discovered schools per property.
package store

import (
    "context"
    "crypto/sha256"
    "database/sql"
    "encoding/hex"
    "errors"
    "time"

    _ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct { DB *sql.DB }

func Open(dsn string) (*Store, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil { return nil, err }
    db.SetMaxOpenConns(10)
    db.SetMaxIdleConns(5)
    db.SetConnMaxLifetime(30 * time.Minute)
    return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Migrate(ctx context.Context) error {
    stmts := []string{
        `CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
        `CREATE TABLE IF NOT EXISTS properties (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            property_key    TEXT NOT NULL,
            address_line1   TEXT NOT NULL,
            city            TEXT NOT NULL,
            state           TEXT NOT NULL,
            zip             TEXT NOT NULL,
            address_full    TEXT,
            living_sqft     DOUBLE PRECISION,
            lot_sqft        DOUBLE PRECISION,
            facing          TEXT,
            created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
            updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
            last_fetch_at   TIMESTAMPTZ
        );`,
        `CREATE UNIQUE INDEX IF NOT EXISTS ux_properties_property_key ON properties(property_key);`,
        `CREATE TABLE IF NOT EXISTS property_schools (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            property_id   UUID NOT NULL REFERENCES properties(id) ON DELETE CASCADE,
            name          TEXT NOT NULL,
            level         TEXT,
            rating        DOUBLE PRECISION,
            position      INTEGER NOT NULL DEFAULT 0,
            created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
        `CREATE INDEX IF NOT EXISTS idx_propschools_property ON property_schools(property_id);`,
        `CREATE TABLE IF NOT EXISTS extraction_snapshots (
            id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
            provider       TEXT NOT NULL,
            source_url     TEXT NOT NULL,
            property_key   TEXT,
            payload        JSONB NOT NULL,
            payload_sha256 TEXT NOT NULL,
            fetched_at     TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
        `CREATE INDEX IF NOT EXISTS idx_extractions_provider ON extraction_snapshots(provider, fetched_at DESC);`,
        `CREATE INDEX IF NOT EXISTS idx_extractions_key ON extraction_snapshots(property_key);`,
    }
    for _, q := range stmts {
        if _, err := s.DB.ExecContext(ctx, q); err != nil { return err }
    }
    return nil
}

type SchoolInput struct {
    Name   string
    Level  sql.NullString
    Rating sql.NullFloat64
}

type UpsertInput struct {
    PropertyKey string
    Address1    string
    City        string
    State       string
    Zip         string
    AddressFull sql.NullString
    LivingSqft  sql.NullFloat64
    LotSqft     sql.NullFloat64
    Facing      sql.NullString
    Schools     []SchoolInput
    // Raw snapshot
    Provider    string
    SourceURL   string
    PayloadJSON []byte
}

type UpsertResult struct {
    PropertyID string
}

// WriteSnapshotAndUpsert stores one extraction: property upsert by key, a
// replacement school set, and the raw payload for replay.
func (s *Store) WriteSnapshotAndUpsert(ctx context.Context, in UpsertInput) (UpsertResult, error) {
    var res UpsertResult
    if s.DB == nil { return res, errors.New("nil db") }
    tx, err := s.DB.BeginTx(ctx, nil)
    if err != nil { return res, err }
    defer func() { if err != nil { _ = tx.Rollback() } }()

    // properties upsert; only overwrite extracted fields with real values
    err = tx.QueryRowContext(ctx, `
        INSERT INTO properties (property_key, address_line1, city, state, zip, address_full, living_sqft, lot_sqft, facing, last_fetch_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, now())
        ON CONFLICT (property_key)
        DO UPDATE SET
            address_line1=EXCLUDED.address_line1, city=EXCLUDED.city, state=EXCLUDED.state, zip=EXCLUDED.zip,
            address_full=COALESCE(EXCLUDED.address_full, properties.address_full),
            living_sqft=COALESCE(EXCLUDED.living_sqft, properties.living_sqft),
            lot_sqft=COALESCE(EXCLUDED.lot_sqft, properties.lot_sqft),
            facing=COALESCE(EXCLUDED.facing, properties.facing),
            updated_at=now(), last_fetch_at=now()
        RETURNING id`,
        in.PropertyKey, in.Address1, in.City, in.State, in.Zip, in.AddressFull, in.LivingSqft, in.LotSqft, in.Facing,
    ).Scan(&res.PropertyID)
    if err != nil { return res, err }

    // schools: replace current set when the extraction found any
    if len(in.Schools) > 0 {
        if _, err = tx.ExecContext(ctx, `DELETE FROM property_schools WHERE property_id=$1`, res.PropertyID); err != nil { return res, err }
        for i, sc := range in.Schools {
            if sc.Name == "" { continue }
            if _, err = tx.ExecContext(ctx, `INSERT INTO property_schools (property_id, name, level, rating, position) VALUES ($1,$2,$3,$4,$5)`, res.PropertyID, sc.Name, sc.Level, sc.Rating, i); err != nil { return res, err }
        }
    }

    // raw snapshot
    sum := sha256.Sum256(in.PayloadJSON)
    sha := hex.EncodeToString(sum[:])
    if _, err = tx.ExecContext(ctx, `
        INSERT INTO extraction_snapshots (provider, source_url, property_key, payload, payload_sha256)
        VALUES ($1,$2,$3,$4,$5)
    `, in.Provider, in.SourceURL, in.PropertyKey, string(in.PayloadJSON), sha); err != nil { return res, err }

    err = tx.Commit()
    if err != nil { return res, err }
    return res, nil
}
