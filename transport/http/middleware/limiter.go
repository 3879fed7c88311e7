package middleware

import (
	"errors"
	"net"
	"net/http"
	"parking/shared"
	"parking/shared/cache"
	"parking/shared/constant"
	"parking/shared/timezone"
	"parking/transport/http/response"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	headerRetryAfter = "Retry-After"
	unknownAgent     = "unknown"
)

// RateLimit counts requests per client in fixed windows of WindowSeconds. The window index is
// part of the key so a busy client cannot keep its counter alive. Cache failures let the
// request through.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := a.config.App.RateLimiter.MaxRequests
			windowSecs := max(a.config.App.RateLimiter.WindowSeconds, 1)

			now := timezone.Now().Unix()
			window := now / int64(windowSecs)
			retryAfter := int64(windowSecs) - now%int64(windowSecs)

			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, strconv.FormatInt(window, 10), clientIP(r), userAgent(r))

			var count int

			err := a.cache.Get(r.Context(), cacheKey, &count)
			if err != nil && !errors.Is(err, cache.Nil) {
				log.Warn().Err(err).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			count++

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			if count > maxReqs {
				w.Header().Set(headerRetryAfter, strconv.FormatInt(retryAfter, 10))
				response.WithRequestLimitExceeded(w)

				return
			}

			if err := a.cache.Save(r.Context(), cacheKey, count, windowSecs); err != nil {
				log.Warn().Err(err).Msg("failed to save rate limiter counter")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownAgent
}

func clientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
