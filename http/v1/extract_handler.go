package v1

import (
    "context"
    "crypto/sha256"
    "encoding/hex"
    "encoding/json"
    "errors"
    "net/http"
    "time"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/render"

    "github.com/yourorg/house-api/internal/hydrator"
    "github.com/yourorg/house-api/internal/redisx"
    "github.com/yourorg/house-api/listing"
)

type ExtractDeps struct {
    Redis     *redisx.Client
    Extractor *listing.Extractor
    Refetch   func(url string)
    Hydrator  *hydrator.Hydrator
    // TTL and staleness tuning
    CacheTTL    time.Duration
    StaleAfter  time.Duration
    NegativeTTL time.Duration
}

type cachedEnvelope struct {
    Data *listing.Result `json:"data"`
    Meta struct {
        LastFetch  time.Time `json:"last_fetch_at"`
        StaleAfter time.Time `json:"stale_after"`
        TTLSeconds int       `json:"ttl_seconds"`
        Source     string    `json:"source"`
    } `json:"meta"`
}

// CacheKey hashes a listing URL into a stable cache key.
func CacheKey(url string) string {
    sum := sha256.Sum256([]byte(url))
    return hex.EncodeToString(sum[:])
}

// RegisterExtract wires the cached variant of listing extraction: Redis
// envelope with stale-while-revalidate, a negative cache for fetch-dead
// URLs, and a short lock to avoid extraction stampedes.
func RegisterExtract(r chi.Router, d ExtractDeps) {
    r.Route("/v1/listings", func(r chi.Router) {
        r.Get("/extract", func(w http.ResponseWriter, req *http.Request) {
            target := req.URL.Query().Get("url")
            if target == "" {
                render.Status(req, http.StatusBadRequest)
                render.JSON(w, req, map[string]any{"error": "url_required"})
                return
            }
            extract(w, req, d, target)
        })
    })
}

func extract(w http.ResponseWriter, req *http.Request, d ExtractDeps, target string) {
    ctx := req.Context()
    h := CacheKey(target)
    missKey := "listing:miss:" + h
    cacheKey := "listing:url:" + h

    if ok, _ := d.Redis.Exists(ctx, missKey); ok {
        render.Status(req, http.StatusBadGateway)
        render.JSON(w, req, map[string]any{"error": "fetch_failed", "url": target, "cache_miss_cooldown": true})
        return
    }

    if val, err := d.Redis.Get(ctx, cacheKey); err == nil && val != "" {
        var env cachedEnvelope
        if err := json.Unmarshal([]byte(val), &env); err == nil {
            stale := time.Now().After(env.Meta.StaleAfter)
            // fire-and-forget background re-extraction if stale
            if stale && d.Refetch != nil { d.Refetch(target) }
            render.JSON(w, req, map[string]any{
                "ok":     true,
                "source": "cache",
                "stale":  stale,
                "url":    target,
                "data":   env.Data,
            })
            return
        }
    }

    // Cache miss: attempt a short lock to avoid stampedes
    if ok, _ := d.Redis.SetNX(ctx, "listing:lock:"+h, "1", 8*time.Second); !ok {
        render.Status(req, http.StatusAccepted)
        render.JSON(w, req, map[string]any{"ok": false, "in_progress": true, "url": target})
        return
    }

    res, err := d.Extractor.Extract(ctx, target)
    if err != nil {
        var fe *listing.FetchError
        if errors.As(err, &fe) {
            _ = d.Redis.Set(ctx, missKey, "1", maxDur(d.NegativeTTL, time.Minute))
            render.Status(req, http.StatusBadGateway)
            render.JSON(w, req, map[string]any{"error": "fetch_failed", "detail": fe.Err.Error(), "data": res})
            return
        }
        render.Status(req, http.StatusBadRequest)
        render.JSON(w, req, map[string]any{"error": "invalid_url", "detail": target})
        return
    }

    WriteCache(ctx, d, target, res)

    if d.Hydrator.Enabled() {
        _ = d.Hydrator.Write(ctx, "listing-extractor", target, res)
    }

    render.JSON(w, req, map[string]any{
        "ok":     true,
        "source": "fresh",
        "stale":  false,
        "url":    target,
        "data":   res,
    })
}

// WriteCache stores an extraction under its URL key. Also used by the
// background refresher after a stale re-extraction.
func WriteCache(ctx context.Context, d ExtractDeps, target string, res *listing.Result) {
    env := cachedEnvelope{Data: res}
    env.Meta.LastFetch = time.Now()
    env.Meta.StaleAfter = env.Meta.LastFetch.Add(maxDur(d.StaleAfter, 5*time.Minute))
    env.Meta.TTLSeconds = int(maxDur(d.CacheTTL, time.Hour).Seconds())
    env.Meta.Source = "listing-extractor"
    b, _ := json.Marshal(env)
    h := CacheKey(target)
    _ = d.Redis.Set(ctx, "listing:url:"+h, string(b), time.Duration(env.Meta.TTLSeconds)*time.Second)
    // a fresh extraction invalidates any fetch-dead cooldown
    _ = d.Redis.Del(ctx, "listing:miss:"+h)
}

func maxDur(a, b time.Duration) time.Duration { if a > 0 { return a }; return b }
