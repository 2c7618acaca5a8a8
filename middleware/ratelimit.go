package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleCutoff    = 10 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type limiterPool struct {
	byIP sync.Map
	rps  rate.Limit
	b    int
}

func (p *limiterPool) get(ip string) *rate.Limiter {
	v, _ := p.byIP.LoadOrStore(ip, &ipLimiter{limiter: rate.NewLimiter(p.rps, p.b)})
	il := v.(*ipLimiter)
	il.lastSeen = time.Now()
	return il.limiter
}

func (p *limiterPool) sweep() {
	cutoff := time.Now().Add(-limiterIdleCutoff)
	p.byIP.Range(func(k, v interface{}) bool {
		if v.(*ipLimiter).lastSeen.Before(cutoff) {
			p.byIP.Delete(k)
		}
		return true
	})
}

// RateLimit provides per-IP token-bucket rate limiting.
// r = requests per second, b = burst size.
func RateLimit(r rate.Limit, b int) gin.HandlerFunc {
	pool := &limiterPool{rps: r, b: b}

	go func() {
		ticker := time.NewTicker(limiterSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			pool.sweep()
		}
	}()

	return func(c *gin.Context) {
		if !pool.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
