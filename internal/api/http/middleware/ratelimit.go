package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	defaultRPS   = 100
	defaultBurst = 10
	// idleClientTTL через столько неактивный клиент забывается
	idleClientTTL = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters держит по лимитеру на адрес клиента
type clientLimiters struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
}

func (c *clientLimiters) get(host string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if now.Sub(c.lastSweep) > idleClientTTL {
		for k, cl := range c.clients {
			if now.Sub(cl.lastSeen) > idleClientTTL {
				delete(c.clients, k)
			}
		}
		c.lastSweep = now
	}

	cl, ok := c.clients[host]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(c.rps, c.burst)}
		c.clients[host] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// RateLimit ограничивает частоту запросов с одного адреса.
// rps - запросов в секунду, burst - допустимый всплеск
func RateLimit(next http.Handler, rps int, burst int) http.Handler {
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}

	limiters := &clientLimiters{
		rps:       rate.Limit(rps),
		burst:     burst,
		clients:   make(map[string]*clientLimiter),
		lastSweep: time.Now(),
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host := clientHost(r)
		if !limiters.get(host, time.Now()).Allow() {
			logrus.WithFields(logrus.Fields{"path": r.URL.Path, "remote": host}).Warn("rate limit exceeded")
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
