package middleware

import (
	"net/http"
	"net/http/httptest"
	"path"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"items":[]}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsShortInput(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{0, 0, 0})
	assert.False(t, ok)

	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 0, 99})
	assert.False(t, ok)
}

func TestCacheKeyIsPerVolunteer(t *testing.T) {
	cfg := config.CacheConfig{KeyStrategy: "route_query", Prefix: "cache"}
	e := echo.New()

	ctxFor := func(volunteerID uint64) echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/v1/my/shifts", nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/my/shifts")
		c.Set(volunteerIDKey, volunteerID)
		return c
	}

	k1 := cacheKey(cfg, ctxFor(1))
	k2 := cacheKey(cfg, ctxFor(2))
	assert.NotEqual(t, k1, k2)
	assert.Equal(t, k1, cacheKey(cfg, ctxFor(1)))
}

func TestVolunteerKeysMatchInvalidationPattern(t *testing.T) {
	cfg := config.CacheConfig{KeyStrategy: "route_query", Prefix: "cache"}
	e := echo.New()

	ctxFor := func(volunteerID uint64, target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/my/shifts")
		c.Set(volunteerIDKey, volunteerID)
		return c
	}

	pattern := volunteerKeyPattern(cfg, 7)
	for _, target := range []string{"/v1/my/shifts", "/v1/my/shifts?x=1"} {
		key := cacheKey(cfg, ctxFor(7, target))
		matched, err := path.Match(pattern, key)
		require.NoError(t, err)
		assert.True(t, matched, "key %q should match %q", key, pattern)
	}

	other := cacheKey(cfg, ctxFor(8, "/v1/my/shifts"))
	matched, err := path.Match(pattern, other)
	require.NoError(t, err)
	assert.False(t, matched, "another volunteer's key must not match")
}

func TestCaptureWriterRespectsLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}

	n, err := cw.Write([]byte("abcdefgh"))
	require.NoError(t, err)

	assert.Equal(t, 8, n)
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(8), cw.size)
	assert.Equal(t, "abcdefgh", rec.Body.String())
}

func TestResponseCacheDisabledPassesThrough(t *testing.T) {
	mw := ResponseCache(config.CacheConfig{Enabled: false}, nil)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/my/shifts", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := mw(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Empty(t, rec.Header().Get("X-Cache"))
}
