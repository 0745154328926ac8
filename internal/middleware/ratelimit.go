package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	appErrors "github.com/leaguehub/scheduler/pkg/errors"
	"github.com/leaguehub/scheduler/pkg/response"
)

// leagueLimiter hands out one token-bucket limiter per league, bounding
// concurrent schedule generator runs per league (spec §5: generation is
// CPU-bound and must complete within a soft 10s budget for <= 24 teams,
// <= 2,000 open slots).
type leagueLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newLeagueLimiter(requestsPerMinute int) *leagueLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 6
	}
	return &leagueLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(float64(requestsPerMinute) / time.Minute.Seconds()),
		burst:    requestsPerMinute,
	}
}

func (l *leagueLimiter) getLimiter(leagueID string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[leagueID]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[leagueID] = limiter
	return limiter
}

// RateLimitSchedule rate-limits POST /schedule/preview and
// POST /schedule/apply per league.
func RateLimitSchedule(requestsPerMinute int) gin.HandlerFunc {
	limiter := newLeagueLimiter(requestsPerMinute)
	return func(c *gin.Context) {
		leagueID := c.GetHeader(HeaderLeagueID)
		if !limiter.getLimiter(leagueID).Allow() {
			response.Error(c, appErrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
