package http

import (
	"net/http"
	"strconv"
	"time"

	"fedauth/internal/domain"
	"fedauth/internal/usecase"

	"github.com/gin-gonic/gin"
)

// enforceInboxRateLimit applies the pre-verification gate. Returning false
// means the request was rejected and no signature work may happen.
func (s *Server) enforceInboxRateLimit(c *gin.Context, rawSig string) bool {
	if !usecase.IsInboxPath(c.Request.URL.Path) {
		return true
	}
	claimedDomain := usecase.ClaimedSenderDomain(rawSig)
	decision, err := s.inboxLimiter.Check(c.Request.Context(), c.ClientIP(), claimedDomain)
	if err != nil {
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMIT_UNAVAILABLE", "rate limiter unavailable")
		return false
	}
	writeRateLimitHeaders(c, decision)
	if !decision.Allowed {
		writeErrorCode(c, http.StatusTooManyRequests, "RATE_LIMITED", "rate limit exceeded")
		return false
	}
	return true
}

func writeRateLimitHeaders(c *gin.Context, decision domain.RateLimitDecision) {
	if decision.Limit > 0 {
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
	}
	if decision.Remaining >= 0 {
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
	}
	if !decision.ResetAt.IsZero() {
		resetUnix := decision.ResetAt.Unix()
		c.Header("RateLimit-Reset", strconv.FormatInt(resetUnix, 10))
		if !decision.Allowed {
			retryAfter := int64(time.Until(decision.ResetAt).Seconds())
			if retryAfter < 0 {
				retryAfter = 0
			}
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
}
