package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/theatre-volunteer-shifts/internal/config"
)

// captureWriter tees the response into a buffer (up to a byte limit) while
// forwarding it to the client, so a successful response can be stored after
// the handler finishes.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if remain := cw.limit - cw.size; remain > 0 {
		if int64(len(b)) <= remain {
			cw.buf.Write(b)
		} else {
			cw.buf.Write(b[:remain])
		}
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

// cacheKey builds a stable Redis key from the configured strategy. When a
// volunteer is authenticated their ID is always part of the key: schedule
// responses are per-person and must never leak across login links sharing
// a route. The ID sits outside the hash so a volunteer's whole key set can
// be dropped by pattern when their schedule changes.
func cacheKey(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	parts := []string{"route", c.Path()}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "route":
	case "method_route":
		parts = append(parts, "method", r.Method)
	default: // "route_query"
		parts = append(parts, "q", r.URL.RawQuery)
	}
	sum := sha1.Sum([]byte(strings.Join(parts, ":")))
	if id, ok := VolunteerID(c); ok {
		return fmt.Sprintf("%s:vol:%s:%x", cfg.Prefix, strconv.FormatUint(id, 10), sum[:])
	}
	return fmt.Sprintf("%s:%x", cfg.Prefix, sum[:])
}

// volunteerKeyPattern matches every cached response belonging to one
// volunteer.
func volunteerKeyPattern(cfg config.CacheConfig, id uint64) string {
	return fmt.Sprintf("%s:vol:%s:*", cfg.Prefix, strconv.FormatUint(id, 10))
}

// invalidateVolunteer drops a volunteer's cached responses after one of
// their mutations succeeds, so the next schedule read reflects the change
// instead of waiting out the TTL. Redis errors are ignored; a stale entry
// then simply expires on its own.
func invalidateVolunteer(ctx context.Context, rdb *redis.Client, cfg config.CacheConfig, id uint64) {
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	iter := rdb.Scan(ctx, 0, volunteerKeyPattern(cfg, id), 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}

// encodePayload packs [4 bytes status][4 bytes headerLen][headerJSON][body]
// so cached responses replay with their original headers and formatting.
func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	hdrJSON, err := json.Marshal(header)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 8+len(hdrJSON)+len(body))
	binary.BigEndian.PutUint32(out[0:4], uint32(status))
	binary.BigEndian.PutUint32(out[4:8], uint32(len(hdrJSON)))
	copy(out[8:], hdrJSON)
	copy(out[8+len(hdrJSON):], body)
	return out, nil
}

func decodePayload(bs []byte) (status int, header http.Header, body []byte, ok bool) {
	if len(bs) < 8 {
		return 0, nil, nil, false
	}
	status = int(binary.BigEndian.Uint32(bs[0:4]))
	hlen := int(binary.BigEndian.Uint32(bs[4:8]))
	if hlen < 0 || 8+hlen > len(bs) {
		return 0, nil, nil, false
	}
	header = make(http.Header)
	if hlen > 0 {
		if err := json.Unmarshal(bs[8:8+hlen], &header); err != nil {
			return 0, nil, nil, false
		}
	}
	return status, header, bs[8+hlen:], true
}

// ResponseCache serves eligible requests from Redis and stores fresh 200
// responses with the configured TTL. With no Redis client, or caching
// disabled, it degrades to a pass-through.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				// Mutations are never cached, but a successful one makes
				// this volunteer's cached reads stale. Drop them now.
				err := next(c)
				if err == nil && c.Response().Status < http.StatusBadRequest {
					if id, ok := VolunteerID(c); ok {
						invalidateVolunteer(c.Request().Context(), rdb, cfg, id)
					}
				}
				return err
			}
			key := cacheKey(cfg, c)
			ctx, cancel := context.WithTimeout(c.Request().Context(), 500*time.Millisecond)
			cached, err := rdb.Get(ctx, key).Bytes()
			cancel()
			if err == nil {
				if status, hdr, body, ok := decodePayload(cached); ok {
					h := c.Response().Header()
					for k, vs := range hdr {
						for _, v := range vs {
							h.Add(k, v)
						}
					}
					h.Set("X-Cache", "HIT")
					return c.Blob(status, hdr.Get(echo.HeaderContentType), body)
				}
			}

			cw := &captureWriter{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          int64(cfg.MaxBodyBytes),
			}
			c.Response().Writer = cw
			if err := next(c); err != nil {
				return err
			}
			// Only complete 200 responses are worth replaying.
			if cw.status == http.StatusOK && cw.size <= int64(cfg.MaxBodyBytes) {
				payload, err := encodePayload(cw.status, c.Response().Header().Clone(), cw.buf.Bytes())
				if err == nil {
					sctx, scancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
					_ = rdb.Set(sctx, key, payload, ttl).Err()
					scancel()
				}
			}
			return nil
		}
	}
}
