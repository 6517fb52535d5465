package listing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

const defaultMirrorBase = "https://r.jina.ai"

// FetchError reports a network-level failure reaching a listing after the
// mirror fallback has also been exhausted. HTTP-level blocks (403s and
// friends) are not fetch errors; their bodies still feed the text scan.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.URL, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher pulls listing pages with browser-like headers and falls back to a
// read-only text mirror when the site refuses the direct request.
type Fetcher struct {
	client     *retryablehttp.Client
	MirrorBase string
	limiter    *rate.Limiter
}

func NewFetcher() *Fetcher {
	rc := retryablehttp.NewClient()
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 1200 * time.Millisecond
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 12 * time.Second
	rc.Logger = nil

	return &Fetcher{
		client:     rc,
		MirrorBase: defaultMirrorBase,
		// the mirror is a shared public service; keep requests polite
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
	}
}

// Fetch returns the page body for u, trying the page itself first and the
// text mirror second. The mirror body is returned regardless of its status
// code: even an error page may carry scrapeable text. The returned debug map
// records what happened on each path.
func (f *Fetcher) Fetch(ctx context.Context, u *url.URL) (string, map[string]any, error) {
	debug := map[string]any{}

	body, status, primaryErr := f.do(ctx, u.String(), true)
	if primaryErr == nil {
		debug["primary"] = map[string]any{"status": status, "ok": status >= 200 && status < 300}
		if status >= 200 && status < 300 {
			return body, debug, nil
		}
	} else {
		debug["primary"] = map[string]any{"error": primaryErr.Error()}
	}

	mirrorURL := fmt.Sprintf("%s/http://%s%s", f.MirrorBase, u.Host, u.Path)
	if err := f.limiter.Wait(ctx); err != nil {
		return "", debug, &FetchError{URL: u.String(), Err: err}
	}
	mirrorBody, mirrorStatus, mirrorErr := f.do(ctx, mirrorURL, false)
	if mirrorErr != nil {
		debug["mirror"] = map[string]any{"url": mirrorURL, "error": mirrorErr.Error()}
		return "", debug, &FetchError{URL: u.String(), Err: mirrorErr}
	}
	debug["mirror"] = map[string]any{"url": mirrorURL, "status": mirrorStatus, "ok": mirrorStatus >= 200 && mirrorStatus < 300}
	return mirrorBody, debug, nil
}

func (f *Fetcher) do(ctx context.Context, target string, browserHeaders bool) (string, int, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (house-dashboard)")
	if browserHeaders {
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Cache-Control", "no-cache")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", 0, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", resp.StatusCode, err
	}
	return string(b), resp.StatusCode, nil
}
