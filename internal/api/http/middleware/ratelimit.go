package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dharti-automation/dharti-web/internal/logging"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	// idleTTL is how long a client's bucket survives without requests.
	idleTTL = 10 * time.Minute

	HeaderRetryAfter = "Retry-After"
)

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientRateLimiter keeps one token bucket per client IP.
type ClientRateLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*clientBucket
	now     func() time.Time

	lastPrune time.Time
}

// NewClientRateLimiter allows rps requests per second per client with the
// given burst. A non-positive rps disables limiting.
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &ClientRateLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientBucket),
		now:     time.Now,
	}
}

// Allow reports whether key may make a request now, and if not, how long
// until it may.
func (l *ClientRateLimiter) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(now)

	b, ok := l.clients[key]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = b
	}
	b.lastSeen = now

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, time.Second
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// Clients reports how many client buckets are held.
func (l *ClientRateLimiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientRateLimiter) prune(now time.Time) {
	if now.Sub(l.lastPrune) < time.Minute {
		return
	}
	l.lastPrune = now
	for key, b := range l.clients {
		if now.Sub(b.lastSeen) > idleTTL {
			delete(l.clients, key)
		}
	}
}

// RateLimitMiddleware rejects requests from clients over their budget with
// 429 and a Retry-After header.
func RateLimitMiddleware(l *ClientRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := l.Allow(c.ClientIP())
		if ok {
			c.Next()
			return
		}

		secs := int(math.Ceil(wait.Seconds()))
		if secs < 1 {
			secs = 1
		}
		logging.Operation(c.Request.Context(), "rate_limit").Warnf("client %s throttled for %ds", c.ClientIP(), secs)
		c.Header(HeaderRetryAfter, strconv.Itoa(secs))
		c.String(http.StatusTooManyRequests, "Too many submissions. Please wait a moment and try again.")
		c.Abort()
	}
}
