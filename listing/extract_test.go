package listing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPath = "/CA/San-Jose/1893-Newbury-Park-Dr-95133/home/1288319"

const jsonLDPage = `<html><head>
<script type="application/ld+json">
{
  "@type": "SingleFamilyResidence",
  "address": {
    "streetAddress": "1893 Newbury Park Dr",
    "addressLocality": "San Jose",
    "addressRegion": "CA",
    "postalCode": "95133"
  },
  "floorSize": {"value": 1714},
  "lotSize": {"value": "5,663"}
}
</script>
</head><body>
<p>Square Feet: 1800</p>
<p>Direction Faces: Southeast</p>
<p>8/10 Piedmont Hills High School</p>
</body></html>`

// deadServer returns a base URL nothing listens on.
func deadServer(t *testing.T) string {
	t.Helper()
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	return srv.URL
}

func newTestExtractor(mirrorBase string) *Extractor {
	f := NewFetcher()
	f.MirrorBase = mirrorBase
	return NewExtractorWithFetcher(f)
}

func TestExtractFirstStrategyWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(jsonLDPage))
	}))
	defer srv.Close()

	ext := newTestExtractor(deadServer(t))
	res, err := ext.Extract(context.Background(), srv.URL+listingPath)
	require.NoError(t, err)

	// linked data claims living area before the text scan sees 1800
	require.NotNil(t, res.LivingAreaSqft)
	assert.Equal(t, 1714.0, *res.LivingAreaSqft)
	require.NotNil(t, res.LotSizeSqft)
	assert.Equal(t, 5663.0, *res.LotSizeSqft)

	// the page address replaces the URL-derived seed
	require.NotNil(t, res.Address)
	assert.Equal(t, "1893 Newbury Park Dr, San Jose, CA, 95133", *res.Address)

	// fields linked data never carries still come from the text scan
	require.NotNil(t, res.Facing)
	assert.Equal(t, "SE", *res.Facing)
	require.Len(t, res.Schools, 1)
	assert.Equal(t, "Piedmont Hills High School", res.Schools[0].Name)
}

func TestExtractTextOnlyPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>Living Sq. Ft: 990 Lot Size: 2100 sq ft</body></html>`))
	}))
	defer srv.Close()

	ext := newTestExtractor(deadServer(t))
	res, err := ext.Extract(context.Background(), srv.URL+listingPath)
	require.NoError(t, err)

	// URL seed survives because no strategy found a better address
	require.NotNil(t, res.Address)
	assert.Equal(t, "1893 Newbury Park Dr, San Jose, CA 95133", *res.Address)
	require.NotNil(t, res.LivingAreaSqft)
	assert.Equal(t, 990.0, *res.LivingAreaSqft)
	require.NotNil(t, res.LotSizeSqft)
	assert.Equal(t, 2100.0, *res.LotSizeSqft)
	assert.Nil(t, res.Facing)
	assert.Empty(t, res.Schools)
}

func TestExtractMirrorFallbackOnBlock(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Access Denied", http.StatusForbidden)
	}))
	defer primary.Close()

	mirror := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// the mirror renders plain text, no markup
		assert.True(t, strings.HasPrefix(r.URL.Path, "/http://"), "mirror path %q", r.URL.Path)
		w.Write([]byte("1893 Newbury Park Dr Living Sq. Ft: 1,714 Direction Faces: East"))
	}))
	defer mirror.Close()

	ext := newTestExtractor(mirror.URL)
	res, err := ext.Extract(context.Background(), primary.URL+listingPath)
	require.NoError(t, err)

	require.NotNil(t, res.LivingAreaSqft)
	assert.Equal(t, 1714.0, *res.LivingAreaSqft)
	require.NotNil(t, res.Facing)
	assert.Equal(t, "E", *res.Facing)
}

func TestExtractNetworkFailureKeepsSeed(t *testing.T) {
	dead := deadServer(t)
	ext := newTestExtractor(dead)

	res, err := ext.Extract(context.Background(), dead+listingPath)
	var fe *FetchError
	require.ErrorAs(t, err, &fe)

	// the partial record still carries everything the URL alone could give
	require.NotNil(t, res)
	require.NotNil(t, res.Address)
	assert.Equal(t, "1893 Newbury Park Dr, San Jose, CA 95133", *res.Address)
	assert.Nil(t, res.LivingAreaSqft)
	assert.Nil(t, res.LotSizeSqft)
	assert.Nil(t, res.Facing)
	assert.NotNil(t, res.Schools)
	assert.Empty(t, res.Schools)
}

func TestExtractInvalidURL(t *testing.T) {
	ext := NewExtractor()
	for _, raw := range []string{"::not a url::", "no-scheme-no-host"} {
		res, err := ext.Extract(context.Background(), raw)
		assert.Nil(t, res)
		assert.True(t, errors.Is(err, ErrInvalidURL), "url %q", raw)
	}
}
