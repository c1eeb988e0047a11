// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/angelamos/tecai-kids/internal/core"
)

type RateLimitConfig struct {
	Limit redis_rate.Limit
	// Prefix namespaces keys so separate limiters never share a bucket.
	Prefix    string
	KeyFunc   func(*http.Request) string
	FailOpen  bool
	Bypass    func(*http.Request) bool
	OnLimited func(http.ResponseWriter, *http.Request, *redis_rate.Result)
	Logger    *slog.Logger
}

// RateLimiter counts in Redis and drops to per-process token buckets when
// Redis is unreachable.
type RateLimiter struct {
	redis *redis_rate.Limiter
	local *localBuckets
	cfg   RateLimitConfig
}

// NewRateLimiter builds a limiter. A nil client runs on the in-process
// buckets alone.
func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "ratelimit"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	rl := &RateLimiter{local: &localBuckets{}, cfg: cfg}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.cfg.Bypass != nil && rl.cfg.Bypass(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.cfg.Prefix + ":" + rl.cfg.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if !rl.cfg.FailOpen {
				core.JSONError(w, core.NewAppError(err, "rate limiter unavailable",
					http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"))
				return
			}
			rl.cfg.Logger.WarnContext(r.Context(), "rate limiter failing open",
				"key", key,
				"error", err,
			)
			next.ServeHTTP(w, r)
			return
		}

		h := w.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.Limit.Rate))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset",
			strconv.FormatInt(time.Now().Add(res.ResetAfter).Unix(), 10))

		if res.Allowed > 0 {
			next.ServeHTTP(w, r)
			return
		}

		wait := retryAfter(res)
		h.Set("Retry-After", strconv.Itoa(wait))
		if rl.cfg.OnLimited != nil {
			rl.cfg.OnLimited(w, r, res)
			return
		}
		core.JSONError(w, core.NewAppError(nil,
			fmt.Sprintf("Too many requests. Try again in %d seconds.", wait),
			http.StatusTooManyRequests,
			"RATE_LIMITED",
		))
	})
}

func (rl *RateLimiter) allow(ctx context.Context, key string) (*redis_rate.Result, error) {
	if rl.cfg.Limit.Rate <= 0 || rl.cfg.Limit.Period <= 0 {
		return nil, fmt.Errorf("rate limit %s: non-positive rate or period", rl.cfg.Prefix)
	}
	if rl.redis != nil {
		res, err := rl.redis.Allow(ctx, key, rl.cfg.Limit)
		if err == nil {
			return res, nil
		}
		rl.cfg.Logger.DebugContext(ctx, "redis rate limit unavailable", "error", err)
	}
	return rl.local.allow(key, rl.cfg.Limit, time.Now()), nil
}

func retryAfter(res *redis_rate.Result) int {
	return max(int(res.RetryAfter.Seconds()), 1)
}

// ClientIP is the caller's address without the port. chi's RealIP has
// already applied any forwarding headers to RemoteAddr.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func KeyByIP(r *http.Request) string {
	return "ip:" + ClientIP(r)
}

// KeyByUser keys on the learner when authenticated.
func KeyByUser(r *http.Request) string {
	if id := GetUserID(r.Context()); id != "" {
		return "user:" + id
	}
	return KeyByIP(r)
}

// BypassPrefix skips limiting for paths under any of prefixes.
func BypassPrefix(prefixes ...string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		for _, p := range prefixes {
			if strings.HasPrefix(r.URL.Path, p) {
				return true
			}
		}
		return false
	}
}

func PerMinute(n, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: time.Minute}
}

func PerHour(n, burst int) redis_rate.Limit {
	return redis_rate.Limit{Rate: n, Burst: burst, Period: time.Hour}
}

const bucketIdle = 10 * time.Minute

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// localBuckets holds one token bucket per key. Idle buckets are dropped
// during later calls rather than by a background goroutine.
type localBuckets struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	nextSweep time.Time
}

func (l *localBuckets) allow(key string, limit redis_rate.Limit, now time.Time) *redis_rate.Result {
	perSec := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.buckets == nil {
		l.buckets = make(map[string]*bucket)
	}
	if now.After(l.nextSweep) {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > bucketIdle {
				delete(l.buckets, k)
			}
		}
		l.nextSweep = now.Add(bucketIdle)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(rate.Limit(perSec), limit.Burst)}
		l.buckets[key] = b
	}
	b.seen = now

	res := &redis_rate.Result{
		Limit:      limit,
		RetryAfter: -1,
		ResetAfter: time.Duration(float64(time.Second) / perSec),
	}
	if b.lim.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = res.ResetAfter
	}
	res.Remaining = max(int(b.lim.TokensAt(now)), 0)

	return res
}
