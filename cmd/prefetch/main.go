// Command prefetch warms the extraction store for a fixed set of listing
// URLs. It runs the same extractor as the API, writes results through the
// hydrator, and repeats on an interval so the dashboard opens on fresh
// data instead of waiting on a live fetch.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/yourorg/house-api/internal/env"
	"github.com/yourorg/house-api/internal/events"
	"github.com/yourorg/house-api/internal/hydrator"
	"github.com/yourorg/house-api/internal/store"
	"github.com/yourorg/house-api/listing"
)

func main() {
	dsn := env.Must("PG_DSN")

	urls := splitList(os.Getenv("PREFETCH_URLS"))
	if len(urls) == 0 {
		log.Fatal("PREFETCH_URLS must be provided")
	}

	interval := parseDuration(os.Getenv("PREFETCH_INTERVAL"), 6*time.Hour)
	pause := parseDuration(os.Getenv("PREFETCH_PAUSE"), 1500*time.Millisecond)
	requestTimeout := parseDuration(os.Getenv("PREFETCH_REQUEST_TIMEOUT"), 30*time.Second)
	runOnce := parseBool(os.Getenv("PREFETCH_RUN_ONCE"), false)

	extractor := listing.NewExtractor()

	st, err := store.Open(dsn)
	if err != nil {
		log.Fatalf("store open error: %v", err)
	}
	defer st.DB.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := st.Ping(ctx); err != nil {
		cancel()
		log.Fatalf("postgres ping error: %v", err)
	}
	if err := st.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("postgres migrate error: %v", err)
	}
	cancel()

	pub := events.NewInMemory(256)
	hyd := &hydrator.Hydrator{Store: st, Pub: pub}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runPass := func() error {
		for _, u := range urls {
			if err := rootCtx.Err(); err != nil {
				return err
			}
			reqCtx, reqCancel := context.WithTimeout(rootCtx, requestTimeout)
			res, err := extractor.Extract(reqCtx, u)
			reqCancel()
			if err != nil {
				log.Printf("prefetch extract %s: %v", u, err)
			} else if err := hyd.Write(rootCtx, "listing-extractor", u, res); err != nil {
				log.Printf("prefetch hydrate %s: %v", u, err)
			}
			select {
			case <-rootCtx.Done():
				return rootCtx.Err()
			case <-time.After(pause):
			}
		}
		return nil
	}

	if runOnce {
		if err := runPass(); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("prefetch run failed: %v", err)
		}
		return
	}

	for {
		if err := runPass(); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("prefetch pass failed: %v", err)
		}
		select {
		case <-rootCtx.Done():
			return
		case <-time.After(interval):
		}
	}
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	fields := strings.FieldsFunc(v, func(r rune) bool {
		switch r {
		case ',', ';', '\n', '\r', '\t', ' ':
			return true
		default:
			return false
		}
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	dur, err := time.ParseDuration(v)
	if err == nil {
		return dur
	}
	if i, err2 := strconv.Atoi(v); err2 == nil {
		return time.Duration(i) * time.Second
	}
	return def
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}
