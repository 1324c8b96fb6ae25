package httpadapter

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/leggal/leggal-agent/internal/metrics"
	"github.com/leggal/leggal-agent/internal/observability"
)

// rateLimit defines one endpoint's request budget.
type rateLimit struct {
	Requests int
	Window   time.Duration
}

// RateLimiter implements fixed-window rate limiting on Redis. With a nil
// client every request passes, so local runs need no Redis.
type RateLimiter struct {
	client       *redis.Client
	limits       map[string]rateLimit
	whitelist    []*net.IPNet
	whitelistIPs map[string]bool
}

// NewRateLimiter builds the limiter. Whitelist entries may be plain IPs or
// CIDR ranges.
func NewRateLimiter(client *redis.Client, whitelist []string) *RateLimiter {
	rl := &RateLimiter{
		client:       client,
		whitelistIPs: make(map[string]bool),
		limits: map[string]rateLimit{
			"POST /ai/analyze":      {30, time.Minute},
			"POST /auth/register":   {10, time.Hour},
			"POST /auth/login":      {20, time.Minute},
			"POST /chat/message":    {30, time.Minute},
			"POST /webhook/message": {60, time.Minute},
		},
	}

	for _, entry := range whitelist {
		if strings.Contains(entry, "/") {
			_, ipNet, err := net.ParseCIDR(entry)
			if err != nil {
				continue
			}
			rl.whitelist = append(rl.whitelist, ipNet)
		} else {
			rl.whitelistIPs[entry] = true
		}
	}
	return rl
}

// Middleware enforces the configured limits; endpoints without a limit pass.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.client == nil {
			next.ServeHTTP(w, r)
			return
		}

		ip := realIP(r)
		if rl.isWhitelisted(ip) {
			next.ServeHTTP(w, r)
			return
		}

		limit, ok := rl.findLimit(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.allow(r, ip, limit) {
			metrics.RateLimitHits.WithLabelValues(r.URL.Path).Inc()
			observability.LoggerFromContext(r.Context()).Warn("rate limit exceeded",
				"ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(limit.Window.Seconds())))
			jsonError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) findLimit(r *http.Request) (rateLimit, bool) {
	limit, ok := rl.limits[r.Method+" "+r.URL.Path]
	return limit, ok
}

func (rl *RateLimiter) allow(r *http.Request, ip string, limit rateLimit) bool {
	ctx := r.Context()
	bucket := time.Now().Unix() / int64(limit.Window.Seconds())
	key := fmt.Sprintf("ratelimit:%s:%s:%d", r.URL.Path, ip, bucket)

	count, err := rl.client.Incr(ctx, key).Result()
	if err != nil {
		// Redis being down must not take the API with it.
		return true
	}
	if count == 1 {
		rl.client.Expire(ctx, key, limit.Window)
	}
	return count <= int64(limit.Requests)
}

func (rl *RateLimiter) isWhitelisted(ipStr string) bool {
	if rl.whitelistIPs[ipStr] {
		return true
	}
	ip := net.ParseIP(ipStr)
	if ip == nil {
		return false
	}
	for _, ipNet := range rl.whitelist {
		if ipNet.Contains(ip) {
			return true
		}
	}
	return false
}

// realIP extracts the client IP, trusting proxy headers when present.
func realIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return strings.TrimSpace(strings.Split(ip, ",")[0])
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
