package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kunals990/movie-ticket-booking/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"movies":[]}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, `{"movies":[]}`, string(body))
}

func TestDecodePayload_Garbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte("short"))
	assert.False(t, ok)
}

func TestCacheKey_StableAndQuerySensitive(t *testing.T) {
	cfg := cacheTestConfig()
	e := echo.New()

	mk := func(target string) echo.Context {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		c := e.NewContext(req, httptest.NewRecorder())
		c.SetPath("/v1/movies")
		return c
	}

	k1 := cacheKeyFrom(cfg, mk("/v1/movies"))
	k2 := cacheKeyFrom(cfg, mk("/v1/movies"))
	k3 := cacheKeyFrom(cfg, mk("/v1/movies?page=2"))

	assert.Equal(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestRedisCache_Hit(t *testing.T) {
	cfg := cacheTestConfig()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/movies")

	payload, err := encodePayload(http.StatusOK,
		http.Header{"Content-Type": []string{"application/json"}},
		[]byte(`{"movies":[]}`))
	require.NoError(t, err)

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(cacheKeyFrom(cfg, c)).SetVal(string(payload))

	called := false
	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		called = true
		return c.String(http.StatusOK, "fresh")
	})

	require.NoError(t, h(c))
	assert.False(t, called, "handler must not run on a cache hit")
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, `{"movies":[]}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_MissRunsHandler(t *testing.T) {
	cfg := cacheTestConfig()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/movies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/movies")

	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(cacheKeyFrom(cfg, c)).RedisNil()

	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		return c.String(http.StatusOK, "fresh")
	})

	require.NoError(t, h(c))
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.Equal(t, "fresh", rec.Body.String())
}

func TestRedisCache_SkipsUncachedMethods(t *testing.T) {
	cfg := cacheTestConfig()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/movies", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/movies")

	rdb, mock := redismock.NewClientMock()

	h := NewRedisCache(cfg, rdb)(func(c echo.Context) error {
		return c.String(http.StatusCreated, "made")
	})

	require.NoError(t, h(c))
	assert.Empty(t, rec.Header().Get("X-Cache"))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
