package api

import (
	"math"
	"net"
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
)

// syncRateLimit is a huma operation middleware that limits sync calls per
// client IP. Rejected calls get 429 with a Retry-After header.
func (s *Server) syncRateLimit(ctx huma.Context, next func(huma.Context)) {
	limiter := s.opts.SyncLimiter
	if limiter == nil {
		next(ctx)
		return
	}

	key := clientIP(ctx.RemoteAddr())
	if limiter.Allow(key) {
		next(ctx)
		return
	}

	retry := max(int(math.Ceil(limiter.RetryAfter(key).Seconds())), 1)
	s.logger.Warn("sync rate limit exceeded",
		"ip", key,
		"retry_after_s", retry,
	)

	ctx.SetHeader("Retry-After", strconv.Itoa(retry))
	if err := huma.WriteErr(s.api, ctx, http.StatusTooManyRequests, "Too many sync requests. Please try again later."); err != nil {
		s.logger.Error("failed to write rate limit response", "error", err)
	}
}

// clientIP strips the port from a remote address. chi's RealIP middleware has
// already replaced it with X-Forwarded-For or X-Real-IP when present.
func clientIP(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
