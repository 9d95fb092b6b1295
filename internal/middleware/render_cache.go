package middleware

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/agencypack/blog-backend/pkg/cache"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// CacheTagsKey is the gin context key under which handlers declare the
// cache tags their rendered response depends on
const CacheTagsKey = "cache_tags"

// RenderCacheConfig configures the render cache middleware
type RenderCacheConfig struct {
	TTL time.Duration
}

// DefaultRenderCacheConfig returns default render cache configuration
func DefaultRenderCacheConfig() RenderCacheConfig {
	return RenderCacheConfig{TTL: cache.TTLRender}
}

type cachedResponse struct {
	Status  int               `json:"status"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body"`
}

// DeclareCacheTags records the cache tags a handler's response depends
// on, so the render cache registers the entry for invalidation
func DeclareCacheTags(c *gin.Context, tags ...string) {
	existing, _ := c.Get(CacheTagsKey)
	if prev, ok := existing.([]string); ok {
		tags = append(prev, tags...)
	}
	c.Set(CacheTagsKey, tags)
}

// RenderCache returns a gin middleware that caches GET responses in the
// tag-aware cache. Entries are registered under the tags the handler
// declared; flushing any of those tags evicts the entry.
func RenderCache(svc cache.Service, cfg RenderCacheConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Only cache GET requests
		if c.Request.Method != http.MethodGet || svc == nil || !svc.IsAvailable() {
			c.Next()
			return
		}

		key := renderKey(c.Request.URL.Path, c.Request.URL.RawQuery)
		ctx := c.Request.Context()

		// Try cache hit
		val, err := svc.GetRender(ctx, key)
		if err == nil {
			var cached cachedResponse
			if json.Unmarshal(val, &cached) == nil {
				for k, v := range cached.Headers {
					c.Header(k, v)
				}
				c.Header("X-Cache", "HIT")
				c.Data(cached.Status, "application/json", []byte(cached.Body))
				c.Abort()
				return
			}
		} else if err != redis.Nil {
			// Read errors degrade to a miss; writes stay loud elsewhere
			c.Next()
			return
		}

		// Cache miss, capture the response
		w := &responseWriter{ResponseWriter: c.Writer, body: make([]byte, 0, 1024)}
		c.Writer = w

		c.Next()

		// Only cache successful responses
		if w.status >= 200 && w.status < 300 {
			cached := cachedResponse{
				Status: w.status,
				Headers: map[string]string{
					"Content-Type": w.Header().Get("Content-Type"),
				},
				Body: string(w.body),
			}
			data, err := json.Marshal(cached)
			if err != nil {
				return
			}
			tags, _ := c.Get(CacheTagsKey)
			declared, _ := tags.([]string)
			_ = svc.SetRender(ctx, key, data, declared, cfg.TTL)
		}

		c.Header("X-Cache", "MISS")
	}
}

func renderKey(path, query string) string {
	raw := path
	if query != "" {
		raw += "?" + query
	}
	return fmt.Sprintf("%x", sha256.Sum256([]byte(raw)))
}

// responseWriter captures the response body
type responseWriter struct {
	gin.ResponseWriter
	body   []byte
	status int
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body = append(w.body, b...)
	return w.ResponseWriter.Write(b)
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body = append(w.body, s...)
	return w.ResponseWriter.WriteString(s)
}
