package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/yourorg/house-api/facing"
	"github.com/yourorg/house-api/gmaps"
	httpv1 "github.com/yourorg/house-api/http/v1"
	"github.com/yourorg/house-api/internal/env"
	"github.com/yourorg/house-api/internal/events"
	"github.com/yourorg/house-api/internal/hydrator"
	"github.com/yourorg/house-api/internal/logger"
	"github.com/yourorg/house-api/internal/redisx"
	"github.com/yourorg/house-api/internal/refresh"
	"github.com/yourorg/house-api/internal/search"
	"github.com/yourorg/house-api/internal/store"
	"github.com/yourorg/house-api/listing"
	"github.com/yourorg/house-api/nces"
	"github.com/yourorg/house-api/overpass"
	"github.com/yourorg/house-api/rentcast"
)

func main() {
	logger.Setup()

	port := env.GetInt("PORT", 4000)
	mapsKey := env.Must("GOOGLE_MAPS_API_KEY")

	maps := gmaps.NewClient(mapsKey)
	extractor := listing.NewExtractor()
	estimator := facing.NewEstimator(maps, overpass.NewClient())

	var rc *rentcast.Client
	if key := env.Get("RENTCAST_API_KEY", ""); key != "" {
		rc = rentcast.NewClient(key)
	} else {
		log.Warn().Msg("RENTCAST_API_KEY not set, /api/property will answer with nulls")
	}

	deps := RouterDeps{
		Extractor: extractor,
		Estimator: estimator,
		Maps:      maps,
		RentCast:  rc,
		Schools:   nces.NewClient(),
	}

	if dsn := env.Get("PG_DSN", ""); dsn != "" {
		st, err := store.Open(dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres open")
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := st.Ping(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("postgres ping")
		}
		if err := st.Migrate(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("postgres migrate")
		}
		cancel()

		pub := events.NewInMemory(64)
		deps.Hydrator = &hydrator.Hydrator{Store: st, Pub: pub}

		idx := &search.Indexer{Pub: pub}
		go idx.Run(context.Background())
	} else {
		log.Warn().Msg("PG_DSN not set, extractions are not persisted")
	}

	if addr := env.Get("REDIS_ADDR", ""); addr != "" {
		rd := redisx.New(addr, env.Get("REDIS_PASSWORD", ""), envRedisDB())
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rd.Ping(ctx); err != nil {
			cancel()
			log.Fatal().Err(err).Str("addr", addr).Msg("redis ping")
		}
		cancel()

		v1 := &httpv1.ExtractDeps{
			Redis:       rd,
			Extractor:   extractor,
			Hydrator:    deps.Hydrator,
			CacheTTL:    time.Duration(env.GetInt("CACHE_TTL_SECONDS", 6*3600)) * time.Second,
			StaleAfter:  time.Duration(env.GetInt("CACHE_STALE_SECONDS", 3600)) * time.Second,
			NegativeTTL: time.Duration(env.GetInt("CACHE_NEGATIVE_SECONDS", 300)) * time.Second,
		}
		refresher := refresh.New(256, 2, func(ctx context.Context, j refresh.Job) {
			res, err := extractor.Extract(ctx, j.URL)
			if err != nil {
				log.Warn().Err(err).Str("url", j.URL).Msg("refresh extract failed")
				return
			}
			httpv1.WriteCache(ctx, *v1, j.URL, res)
			if deps.Hydrator.Enabled() {
				if err := deps.Hydrator.Write(ctx, "listing-extractor", j.URL, res); err != nil {
					log.Warn().Err(err).Str("url", j.URL).Msg("refresh hydrate failed")
				}
			}
		})
		v1.Refetch = func(url string) { refresher.Enqueue(refresh.Job{URL: url}) }
		deps.V1 = v1
	}

	router := BuildRouter(deps)

	log.Info().Int("port", port).Msg("house-api listening")
	if err := http.ListenAndServe(fmt.Sprintf(":%d", port), logger.Middleware(router)); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func envRedisDB() int {
	return env.GetInt("REDIS_DB", 0)
}
