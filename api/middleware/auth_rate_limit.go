package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/adityapratama/shopeasy-backend/api/responses"
	"github.com/adityapratama/shopeasy-backend/pkg/config"
	apperrors "github.com/adityapratama/shopeasy-backend/pkg/errors"
	"github.com/adityapratama/shopeasy-backend/pkg/logger"
)

// AuthRateLimiter throttles login and register attempts with fixed redis
// windows, keyed separately by email and by client IP.
type AuthRateLimiter struct {
	client *redis.Client
	cfg    config.AuthRateLimitConfig
	logg   *logger.Logger
}

func NewAuthRateLimiter(client *redis.Client, cfg config.AuthRateLimitConfig, logg *logger.Logger) *AuthRateLimiter {
	return &AuthRateLimiter{client: client, cfg: cfg, logg: logg}
}

func (l *AuthRateLimiter) Login(next http.Handler) http.Handler {
	return l.limit("login", l.cfg.LoginWindow, l.cfg.LoginEmailLimit, l.cfg.LoginIPLimit, next)
}

func (l *AuthRateLimiter) Register(next http.Handler) http.Handler {
	return l.limit("register", l.cfg.RegisterWindow, l.cfg.RegisterEmailLimit, l.cfg.RegisterIPLimit, next)
}

func (l *AuthRateLimiter) limit(action string, window time.Duration, emailLimit, ipLimit int, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if over := l.bump(ctx, "ratelimit:"+action+":ip:"+clientIP(r), window, ipLimit); over {
			responses.Error(ctx, l.logg, w, apperrors.New(apperrors.CodeRateLimit, "too many attempts, slow down"))
			return
		}

		if email := peekEmail(r); email != "" {
			if over := l.bump(ctx, "ratelimit:"+action+":email:"+email, window, emailLimit); over {
				responses.Error(ctx, l.logg, w, apperrors.New(apperrors.CodeRateLimit, "too many attempts, slow down"))
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

// bump increments the window counter. Redis outages fail open so auth does
// not depend on the cache being up.
func (l *AuthRateLimiter) bump(ctx context.Context, key string, window time.Duration, limit int) bool {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logg.Warn(ctx, "rate limit counter unavailable")
		return false
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, window).Err(); err != nil {
			l.logg.Warn(ctx, "rate limit expiry not set")
		}
	}
	return count > int64(limit)
}

// peekEmail reads the email field from the JSON body without consuming it.
func peekEmail(r *http.Request) string {
	if r.Body == nil {
		return ""
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var payload struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(payload.Email))
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
