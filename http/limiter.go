package http

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// evictEvery how many Allow calls pass between sweeps for idle clients
const evictEvery = 512

// ClientLimiter applies a token bucket per client key and periodically evicts idle clients.
type ClientLimiter struct {
	limit   rate.Limit
	burst   int
	idleTTL time.Duration

	lock    sync.Mutex
	clients map[string]*client
	calls   uint64
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter returns nil, meaning no limit, when rps or burst is not positive.
func NewClientLimiter(rps float64, burst int, idleTTL time.Duration) *ClientLimiter {
	if rps <= 0 || burst <= 0 {
		return nil
	}
	if idleTTL <= 0 {
		idleTTL = 10 * time.Minute
	}
	return &ClientLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: idleTTL,
		clients: map[string]*client{},
	}
}

// Allow reports whether key may make one more request at now.
func (l *ClientLimiter) Allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return true
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now
	allowed := c.limiter.AllowN(now, 1)

	l.calls++
	if l.calls%evictEvery == 0 {
		cutoff := now.Add(-l.idleTTL)
		for k, v := range l.clients {
			if v.lastSeen.Before(cutoff) {
				delete(l.clients, k)
			}
		}
	}

	return allowed
}

// tracked the number of clients currently holding a bucket
func (l *ClientLimiter) tracked() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.clients)
}
