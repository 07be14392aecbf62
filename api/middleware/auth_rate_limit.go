package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/slideforge/slideforge-backend/api/responses"
	pkgerrors "github.com/slideforge/slideforge-backend/pkg/errors"
	"github.com/slideforge/slideforge-backend/pkg/logger"
)

// RateLimiterStore is the counter backend used to enforce auth throttles.
type RateLimiterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
	RateLimitKey(scope string) string
}

// AuthRateLimitPolicy defines the throttling parameters for a traffic surface.
type AuthRateLimitPolicy struct {
	name       string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(name string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	return AuthRateLimitPolicy{
		name:       strings.ToLower(strings.TrimSpace(name)),
		window:     window,
		ipLimit:    ipLimit,
		emailLimit: emailLimit,
	}
}

func (p AuthRateLimitPolicy) enabled() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

func (p AuthRateLimitPolicy) normalizedName() string {
	if p.name == "" {
		return "auth"
	}
	return p.name
}

// limitCheck is one counter to consult before the request may proceed.
type limitCheck struct {
	kind  string
	scope string
	limit int64
	// extra log fields when the check trips
	fields map[string]any
}

// AuthRateLimit enforces per-IP and per-email counters for auth endpoints.
// The email counter keys on a sha256 of the normalized address so raw
// addresses never reach the store. The request body is re-buffered for the
// downstream handler.
func AuthRateLimit(policy AuthRateLimitPolicy, store RateLimiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.enabled() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			checks, err := buildChecks(policy, r)
			if err != nil {
				responses.WriteError(ctx, nil, w, err)
				return
			}

			for _, c := range checks {
				key := store.RateLimitKey(c.scope)
				count, err := store.IncrWithTTL(ctx, key, policy.window)
				if err != nil {
					responses.WriteError(ctx, nil, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
					return
				}
				if count > c.limit {
					if logg != nil {
						fields := map[string]any{
							"scope":          c.kind,
							"policy":         policy.normalizedName(),
							"attempts":       count,
							"limit":          c.limit,
							"window_seconds": int(policy.window.Seconds()),
						}
						for k, v := range c.fields {
							fields[k] = v
						}
						logg.Warn(logg.WithFields(ctx, fields), "auth.rate_limit.blocked")
					}
					responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, "rate limit exceeded"))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// buildChecks assembles the counters for this request, reading (and
// restoring) the body when the email limit needs it.
func buildChecks(policy AuthRateLimitPolicy, r *http.Request) ([]limitCheck, error) {
	var checks []limitCheck

	if policy.ipLimit > 0 {
		if ip := clientIP(r); ip != "" {
			checks = append(checks, limitCheck{
				kind:   "ip",
				scope:  fmt.Sprintf("ip:%s:%s", policy.normalizedName(), ip),
				limit:  int64(policy.ipLimit),
				fields: map[string]any{"ip": ip},
			})
		}
	}

	if policy.emailLimit > 0 {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request")
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		if email := normalizeEmail(extractEmail(body)); email != "" {
			hash := hashValue(email)
			checks = append(checks, limitCheck{
				kind:   "email",
				scope:  fmt.Sprintf("email:%s:%s", policy.normalizedName(), hash),
				limit:  int64(policy.emailLimit),
				fields: map[string]any{"email_hash": hash},
			})
		}
	}

	return checks, nil
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
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
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func extractEmail(payload []byte) string {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	return body.Email
}

func normalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func hashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
