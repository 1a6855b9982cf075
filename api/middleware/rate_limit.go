package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tilestudio-il/tilestudio-backend/api/responses"
	pkgerrors "github.com/tilestudio-il/tilestudio-backend/pkg/errors"
	"github.com/tilestudio-il/tilestudio-backend/pkg/logger"
)

// RateLimitStore is the counter backend the limiter increments. Both the
// Redis client and the in-process fallback satisfy it.
type RateLimitStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// RateLimitPolicy defines the throttling parameters for a traffic surface.
type RateLimitPolicy struct {
	name   string
	window time.Duration
	limit  int
}

// NewRateLimitPolicy builds a policy with the supplied window and per-IP limit.
func NewRateLimitPolicy(name string, window time.Duration, limit int) RateLimitPolicy {
	return RateLimitPolicy{
		name:   strings.ToLower(strings.TrimSpace(name)),
		window: window,
		limit:  limit,
	}
}

func (p RateLimitPolicy) enabled() bool {
	return p.window > 0 && p.limit > 0
}

func (p RateLimitPolicy) key(ip string) string {
	if ip == "" {
		return ""
	}
	return "rl:ip:" + p.name + ":" + ip
}

// RateLimit enforces a per-IP counter over a rolling window. When the store
// itself fails the request passes through; a broken counter must not take
// the form down.
func RateLimit(policy RateLimitPolicy, store RateLimitStore, trustProxy bool, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			ip := ClientIP(r, trustProxy)
			key := policy.key(ip)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			count, err := store.IncrWithTTL(ctx, key, policy.window)
			if err != nil {
				if logg != nil {
					logg.Error(ctx, "rate limit store unavailable", err)
				}
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(policy.limit) {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"policy":         policy.name,
						"ip":             ip,
						"attempts":       count,
						"limit":          policy.limit,
						"window_seconds": int(policy.window.Seconds()),
					})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				responses.WriteJSON(w, http.StatusTooManyRequests, map[string]string{
					"message": pkgerrors.MetadataFor(pkgerrors.CodeRateLimit).PublicMessage,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP resolves the caller's address. Forwarding headers are
// client-controlled, so they count only when the deployment declares a
// trusted proxy in front; otherwise the socket address is the truth.
func ClientIP(r *http.Request, trustProxy bool) string {
	if r == nil {
		return ""
	}
	if trustProxy {
		if header := r.Header.Get("X-Forwarded-For"); header != "" {
			for _, part := range strings.Split(header, ",") {
				if ip := strings.TrimSpace(part); ip != "" {
					return ip
				}
			}
		}
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
